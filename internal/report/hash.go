package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/costwatch/internal/detect"
)

// DomainAnomalies prefixes fingerprints of anomaly lists.
// The version suffix allows the encoding to change without collisions.
const DomainAnomalies = "costwatch/anomalies/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint hashes the canonical encoding of anomalies.
// Equal result sets, in equal order, have equal fingerprints.
func Fingerprint(anomalies []detect.Anomaly) (string, error) {
	data, err := MarshalCanonical(anomalies)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainAnomalies, data), nil
}
