package models

import (
	"fmt"
	"strings"
)

type ModelType string

const (
	ModelProfit   ModelType = "profit"
	ModelQuantity ModelType = "quantity"
)

func (m ModelType) IsValid() bool {
	return m == ModelProfit || m == ModelQuantity
}

func ParseModelType(s string) (ModelType, error) {
	m := ModelType(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("unknown model type %q", s)
	}
	return m, nil
}

// FieldsPredictionRequest is the body of POST /predict/by_fields.
type FieldsPredictionRequest struct {
	Region      string `json:"region"`
	ProductName string `json:"product_name"`
	SubCategory string `json:"sub_category"`
	OrderDate   string `json:"order_date"`
	Model       string `json:"model"`
}

// MissingFields lists the json names of empty fields, in declaration order.
func (r FieldsPredictionRequest) MissingFields() []string {
	var missing []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	check("region", r.Region)
	check("product_name", r.ProductName)
	check("sub_category", r.SubCategory)
	check("order_date", r.OrderDate)
	check("model", r.Model)
	return missing
}

// FeaturePredictionRequest is the body of POST /predict/{model_type}.
type FeaturePredictionRequest struct {
	Features []float64 `json:"features"`
}

type PredictionResponse struct {
	Prediction float64 `json:"prediction"`
}

// ErrorResponse is what the backend sends alongside a non-2xx status.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// PredictionResult is a rendered prediction for one model.
type PredictionResult struct {
	Model string  `json:"model"`
	Value float64 `json:"value"`
}

func (r PredictionResult) String() string {
	return fmt.Sprintf("Prediction %s: %.2f", strings.ToUpper(r.Model), r.Value)
}
