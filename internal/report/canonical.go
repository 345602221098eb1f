package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/costwatch/internal/detect"
)

// canonicalObject is a JSON object whose keys are emitted in sorted order.
type canonicalObject map[string]any

// marshalCanonical encodes v as compact JSON with sorted keys,
// NFC-normalized strings and floats in shortest round-trip form.
// Supported values: string, int, float64, []string, []any, canonicalObject.
func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return marshalCanonicalString(val)
	case int:
		return []byte(strconv.Itoa(val)), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("non-finite float is not representable: %v", val)
		}
		return []byte(strconv.FormatFloat(val, 'g', -1, 64)), nil
	case []string:
		arr := make([]any, len(val))
		for i, s := range val {
			arr[i] = s
		}
		return marshalCanonicalArray(arr)
	case []any:
		return marshalCanonicalArray(val)
	case canonicalObject:
		return marshalCanonicalObject(val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString NFC-normalizes s and quotes it without HTML escaping.
func marshalCanonicalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func marshalCanonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalObject(obj canonicalObject) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range slices.Sorted(maps.Keys(obj)) {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalCanonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("object key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("object[%q]: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// canonicalAnomaly is the identity-bearing content of an anomaly.
func canonicalAnomaly(a detect.Anomaly) canonicalObject {
	return canonicalObject{
		"baseline": canonicalObject{
			"current": a.Baseline.Current,
			"mad":     a.Baseline.MAD,
			"median":  a.Baseline.Median,
			"points":  a.Baseline.Points,
			"slope":   a.Baseline.Slope,
		},
		"date":         formatDate(a.Date),
		"direction":    a.Direction.String(),
		"grouping":     a.Key.Grouping.String(),
		"key":          a.Key.Values(),
		"kind":         a.Kind.String(),
		"metric":       a.Metric,
		"severity":     a.Severity.String(),
		"window_start": formatDate(a.WindowStart),
	}
}

// MarshalCanonical encodes anomalies, in order, as canonical JSON.
func MarshalCanonical(anomalies []detect.Anomaly) ([]byte, error) {
	arr := make([]any, len(anomalies))
	for i, a := range anomalies {
		arr[i] = canonicalAnomaly(a)
	}
	return marshalCanonicalArray(arr)
}
