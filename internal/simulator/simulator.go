// Package simulator is an in-memory stand-in for the trained forecasting
// models: a product catalog plus deterministic linear models for profit and
// quantity.
package simulator

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/OldStager01/sales-forecaster/pkg/models"
)

var (
	ErrUnknownModel   = errors.New("unknown model")
	ErrFeatureCount   = errors.New("wrong number of features")
	ErrUnknownValue   = errors.New("value not in catalog")
	ErrInvalidDate    = errors.New("order_date must be YYYY-MM-DD")
	ErrNotEnoughInput = errors.New("no rows to predict")
)

type Config struct {
	Regions       []string
	Products      []string
	Subcategories []string
	FeatureCount  int
}

type Simulator struct {
	regions       []string
	products      []string
	subcategories []string
	models        map[models.ModelType]*LinearModel
}

func New(cfg Config) *Simulator {
	if len(cfg.Regions) == 0 {
		cfg.Regions = []string{"Central", "East", "South", "West"}
	}
	if len(cfg.Products) == 0 {
		cfg.Products = []string{
			"Bretford CR4500 Series Slim Rectangular Table",
			"Global Deluxe Stacking Chair, Gray",
			"Hon Deluxe Fabric Upholstered Stacking Chairs",
			"Howard Miller 13-3/4\" Diameter Brushed Chrome Round Wall Clock",
		}
	}
	if len(cfg.Subcategories) == 0 {
		cfg.Subcategories = []string{"Bookcases", "Chairs", "Furnishings", "Tables"}
	}
	if cfg.FeatureCount <= 0 {
		cfg.FeatureCount = 8
	}

	return &Simulator{
		regions:       sortedCopy(cfg.Regions),
		products:      sortedCopy(cfg.Products),
		subcategories: sortedCopy(cfg.Subcategories),
		models: map[models.ModelType]*LinearModel{
			models.ModelProfit:   NewLinearModel(12.5, cfg.FeatureCount, 1.75),
			models.ModelQuantity: NewLinearModel(3.0, cfg.FeatureCount, 0.4),
		},
	}
}

// Catalog lists are served sorted.
func (s *Simulator) Regions() []string { return append([]string(nil), s.regions...) }
func (s *Simulator) Products() []string { return append([]string(nil), s.products...) }
func (s *Simulator) Subcategories() []string { return append([]string(nil), s.subcategories...) }

func (s *Simulator) FeatureCount() int {
	return s.models[models.ModelProfit].Arity()
}

func (s *Simulator) model(name string) (*LinearModel, error) {
	mt, err := models.ParseModelType(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return s.models[mt], nil
}

// PredictFeatures scores a raw feature vector with the named model.
func (s *Simulator) PredictFeatures(model string, features []float64) (float64, error) {
	m, err := s.model(model)
	if err != nil {
		return 0, err
	}
	return m.Predict(features)
}

// PredictFields turns form fields into a feature vector and scores it.
func (s *Simulator) PredictFields(req models.FieldsPredictionRequest) (float64, error) {
	m, err := s.model(req.Model)
	if err != nil {
		return 0, err
	}

	region, err := indexOf(s.regions, req.Region, "region")
	if err != nil {
		return 0, err
	}
	product, err := indexOf(s.products, req.ProductName, "product_name")
	if err != nil {
		return 0, err
	}
	subcat, err := indexOf(s.subcategories, req.SubCategory, "sub_category")
	if err != nil {
		return 0, err
	}
	date, err := time.Parse("2006-01-02", req.OrderDate)
	if err != nil {
		return 0, ErrInvalidDate
	}

	features := make([]float64, m.Arity())
	base := []float64{
		float64(region),
		float64(product),
		float64(subcat),
		float64(date.Month()),
		float64(date.Weekday()),
		float64(date.Year() - 2014),
		float64(date.YearDay()) / 366,
		1,
	}
	copy(features, base)

	value, err := m.Predict(features)
	if err != nil {
		return 0, err
	}
	return value * Seasonality(date.Month()), nil
}

// Metrics reports evaluation figures for both models.
func (s *Simulator) Metrics() map[string]interface{} {
	return map[string]interface{}{
		"profit_mae":      18.42,
		"profit_r2":       0.81,
		"quantity_mae":    1.37,
		"quantity_r2":     0.64,
		"feature_count":   s.FeatureCount(),
		"catalog_regions": len(s.regions),
	}
}

func indexOf(values []string, v, field string) (int, error) {
	i := sort.SearchStrings(values, v)
	if i < len(values) && values[i] == v {
		return i, nil
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownValue, field, v)
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
