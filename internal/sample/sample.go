// Package sample generates synthetic CUR-like line items for demos and tests.
//
// Output is fully determined by Options: the same seed yields the same items,
// IDs included. Each dataset carries one planted spike and one planted drift
// so the detectors have something to find.
package sample

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/costwatch/internal/store"
)

// namespace scopes the name-based line item IDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("costwatch/sample"))

type service struct {
	code    string
	regions []string
	low     float64
	high    float64
	usage   []string
}

var services = []service{
	{"AmazonEC2", []string{"us-east-1", "us-west-2", "eu-west-1"}, 800, 3500,
		[]string{"BoxUsage:m5.2xlarge", "EBS:VolumeUsage.gp3", "NatGateway-Hours"}},
	{"AmazonRDS", []string{"us-east-1", "us-west-2"}, 400, 1200,
		[]string{"InstanceUsage:db.r5.xlarge", "RDS:GP2-Storage"}},
	{"AmazonS3", []string{"us-east-1", "eu-west-1"}, 100, 600,
		[]string{"TimedStorage-ByteHrs", "Requests-Tier1"}},
	{"AWSLambda", []string{"us-east-1", "us-west-2"}, 50, 300,
		[]string{"Lambda-GB-Second", "Request"}},
	{"AWSCloudTrail", []string{"us-east-1"}, 10, 50,
		[]string{"EventsRecorded"}},
}

// accounts maps linked account IDs to their spend scale.
var accounts = []struct {
	id    string
	scale float64
}{
	{"111111111111", 1.5},
	{"222222222222", 0.8},
	{"333333333333", 0.5},
}

// Anomaly plants a cost change on one service in one account.
type Anomaly struct {
	Service string
	Account string
	// Days is the number of trailing days affected.
	Days int
	// Multiplier scales cost for a spike. Ignored for drifts.
	Multiplier float64
	// DailyGrowth is the fractional cost increase per day for a drift.
	DailyGrowth float64
}

// Options controls generation.
type Options struct {
	End  time.Time
	Days int
	Seed uint64

	Spike Anomaly
	Drift Anomaly

	// Noise is the relative standard deviation of daily cost.
	Noise float64
}

// DefaultOptions returns 90 days ending on end with a 4x EC2 spike over the
// last two days in the production account and a 4%/day RDS drift in staging.
func DefaultOptions(end time.Time) Options {
	return Options{
		End:   end,
		Days:  90,
		Seed:  42,
		Noise: 0.05,
		Spike: Anomaly{Service: "AmazonEC2", Account: "111111111111", Days: 2, Multiplier: 4},
		Drift: Anomaly{Service: "AmazonRDS", Account: "222222222222", Days: 14, DailyGrowth: 0.04},
	}
}

// Generate returns line items for every day in the range. Each account also
// receives a daily Tax line item, which detection excludes.
func Generate(opts Options) ([]store.LineItem, error) {
	if opts.Days < 1 {
		return nil, fmt.Errorf("sample: days must be positive, got %d", opts.Days)
	}
	if opts.End.IsZero() {
		return nil, fmt.Errorf("sample: end date is required")
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	end := time.Date(opts.End.Year(), opts.End.Month(), opts.End.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(opts.Days - 1))

	// Base daily cost per (account, service, region) is drawn once so the
	// series are stable apart from noise.
	type combo struct {
		account string
		svc     service
		region  string
		base    float64
	}
	var combos []combo
	for _, acct := range accounts {
		for _, svc := range services {
			for _, region := range svc.regions {
				base := (svc.low + rng.Float64()*(svc.high-svc.low)) * acct.scale
				combos = append(combos, combo{acct.id, svc, region, base})
			}
		}
	}

	var items []store.LineItem
	for d := 0; d < opts.Days; d++ {
		date := start.AddDate(0, 0, d)
		remaining := opts.Days - d

		for _, c := range combos {
			cost := c.base * math.Max(1+rng.NormFloat64()*opts.Noise, 0.5)
			cost *= multiplier(opts.Spike, c.svc.code, c.account, remaining, false)
			cost *= multiplier(opts.Drift, c.svc.code, c.account, remaining, true)

			splits := split(rng, len(c.svc.usage))
			for i, usage := range c.svc.usage {
				items = append(items, store.LineItem{
					ID:           lineItemID(opts.Seed, date, c.account, c.svc.code, c.region, usage),
					UsageDate:    date,
					AccountID:    c.account,
					ProductCode:  c.svc.code,
					Region:       c.region,
					UsageType:    c.region + ":" + usage,
					LineItemType: "Usage",
					Cost:         round(cost*splits[i], 6),
					UsageAmount:  round(math.Abs(100+rng.NormFloat64()*50)*splits[i], 6),
					DataSource:   store.SourceCUR,
				})
			}
		}

		for _, acct := range accounts {
			items = append(items, store.LineItem{
				ID:           lineItemID(opts.Seed, date, acct.id, "Tax", "", ""),
				UsageDate:    date,
				AccountID:    acct.id,
				ProductCode:  "AmazonEC2",
				Region:       "us-east-1",
				LineItemType: "Tax",
				Cost:         round(200*acct.scale, 2),
				DataSource:   store.SourceCUR,
			})
		}
	}
	return items, nil
}

// multiplier returns the factor an anomaly applies on a day with remaining
// days left in the range (1 = last day).
func multiplier(a Anomaly, svc, account string, remaining int, drift bool) float64 {
	if a.Days <= 0 || a.Service != svc || a.Account != account || remaining > a.Days {
		return 1
	}
	if drift {
		return 1 + a.DailyGrowth*float64(a.Days-remaining+1)
	}
	return a.Multiplier
}

// split divides 1 into n positive shares.
func split(rng *rand.Rand, n int) []float64 {
	shares := make([]float64, n)
	total := 0.0
	for i := range shares {
		shares[i] = 0.5 + rng.Float64()
		total += shares[i]
	}
	for i := range shares {
		shares[i] /= total
	}
	return shares
}

func lineItemID(seed uint64, date time.Time, parts ...string) string {
	name := fmt.Sprintf("%d|%s", seed, date.Format(store.DateLayout))
	for _, p := range parts {
		name += "|" + p
	}
	return uuid.NewSHA1(namespace, []byte(name)).String()
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
