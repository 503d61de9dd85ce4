package models

// CSVPredictionResponse is the body returned by POST /predict_csv.
type CSVPredictionResponse struct {
	Predictions []float64 `json:"predictions"`
}

// MetricsResponse is the body returned by GET /metrics.
type MetricsResponse struct {
	Metrics map[string]interface{} `json:"metrics"`
}
