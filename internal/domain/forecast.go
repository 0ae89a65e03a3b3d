package domain

// ForecastPoint is one forecast row: a future month (YYYY-MM) and its
// predicted quantity.
type ForecastPoint struct {
	Month    string  `json:"month"`
	Quantity float64 `json:"quantity"`
}

// ForecastResult is the forecast table plus the two axis series the
// dashboard needs to overlay actual vs predicted.
type ForecastResult struct {
	Product string          `json:"product"`
	Horizon int             `json:"horizon"`
	Points  []ForecastPoint `json:"points"`

	// Stale is set when the persisted model was trained on a different
	// series than the one currently uploaded for the product.
	Stale bool `json:"stale"`

	ActualMonths []string  `json:"actual_months"`
	ActualValues []float64 `json:"actual_values"`
}
