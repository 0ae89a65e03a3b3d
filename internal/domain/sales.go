package domain

import (
	"sort"
	"time"

	"github.com/awidars/stock-forecast-api/internal/forecast/timeseries"
)

// SalesRecord is one row of the uploaded sales file: a month-granularity
// date, a product identifier and the quantity sold that month.
type SalesRecord struct {
	Month    time.Time `json:"month"`
	Product  string    `json:"product"`
	Quantity float64   `json:"quantity"`
}

// SalesTable is the validated result of loading an upload. Records keep the
// file order; DroppedRows counts rows discarded under the lenient date
// policy.
type SalesTable struct {
	Records     []SalesRecord `json:"records"`
	DroppedRows int           `json:"dropped_rows"`
}

// Products returns the distinct product identifiers in first-seen order.
func (t *SalesTable) Products() []string {
	seen := make(map[string]bool, len(t.Records))
	var products []string
	for _, r := range t.Records {
		if !seen[r.Product] {
			seen[r.Product] = true
			products = append(products, r.Product)
		}
	}
	return products
}

// ObservationsFor returns the raw (month, quantity) pairs for one product,
// ready for monthly resampling. Order follows the file.
func (t *SalesTable) ObservationsFor(product string) []timeseries.Observation {
	var obs []timeseries.Observation
	for _, r := range t.Records {
		if r.Product == product {
			obs = append(obs, timeseries.Observation{Month: r.Month, Value: r.Quantity})
		}
	}
	return obs
}

// MonthRange returns the earliest and latest record months across all
// products, or zero times for an empty table.
func (t *SalesTable) MonthRange() (first, last time.Time) {
	if len(t.Records) == 0 {
		return time.Time{}, time.Time{}
	}
	months := make([]time.Time, len(t.Records))
	for i, r := range t.Records {
		months[i] = r.Month
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months[0], months[len(months)-1]
}
