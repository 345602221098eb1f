package detect

import (
	"strings"
)

// Dimension is a single reporting dimension of a cost row.
type Dimension int

const (
	// DimService is the AWS product code (e.g. "AmazonEC2").
	DimService Dimension = iota + 1
	// DimAccount is the usage account ID.
	DimAccount
	// DimRegion is the AWS region code.
	DimRegion
)

// String returns the CLI name of the dimension.
func (d Dimension) String() string {
	switch d {
	case DimService:
		return "service"
	case DimAccount:
		return "account"
	case DimRegion:
		return "region"
	default:
		return "unknown"
	}
}

// value extracts the dimension from a row.
func (d Dimension) value(r CostRow) string {
	switch d {
	case DimService:
		return r.Service
	case DimAccount:
		return r.Account
	case DimRegion:
		return r.Region
	default:
		return ""
	}
}

// Grouping is one of the supported dimension combinations.
// The zero value is not a valid grouping.
type Grouping int

const (
	GroupByService Grouping = iota + 1
	GroupByAccount
	GroupByRegion
	GroupByServiceAccount
	GroupByServiceRegion
	GroupByAccountRegion
)

// maxDimensions is the widest supported grouping.
const maxDimensions = 2

var groupingDimensions = map[Grouping][]Dimension{
	GroupByService:        {DimService},
	GroupByAccount:        {DimAccount},
	GroupByRegion:         {DimRegion},
	GroupByServiceAccount: {DimService, DimAccount},
	GroupByServiceRegion:  {DimService, DimRegion},
	GroupByAccountRegion:  {DimAccount, DimRegion},
}

// Groupings lists every supported grouping in display order.
var Groupings = []Grouping{
	GroupByService,
	GroupByAccount,
	GroupByRegion,
	GroupByServiceAccount,
	GroupByServiceRegion,
	GroupByAccountRegion,
}

// ParseGrouping converts a CLI name such as "service+account" into a Grouping.
// Returns an INVALID_GROUPING error for anything outside the whitelist.
func ParseGrouping(s string) (Grouping, error) {
	for _, g := range Groupings {
		if g.String() == s {
			return g, nil
		}
	}
	return 0, newGroupingError("grouping %q must be one of %s", s, groupingNames())
}

// Valid reports whether g is in the supported whitelist.
func (g Grouping) Valid() bool {
	_, ok := groupingDimensions[g]
	return ok
}

// Dimensions returns the ordered dimensions of g, or nil if g is invalid.
func (g Grouping) Dimensions() []Dimension {
	return groupingDimensions[g]
}

// String returns the CLI name, e.g. "service+region".
func (g Grouping) String() string {
	dims := groupingDimensions[g]
	if dims == nil {
		return "invalid"
	}
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = d.String()
	}
	return strings.Join(names, "+")
}

func groupingNames() string {
	names := make([]string, len(Groupings))
	for i, g := range Groupings {
		names[i] = g.String()
	}
	return strings.Join(names, ", ")
}
