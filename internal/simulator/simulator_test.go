package simulator_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sales-forecaster/internal/simulator"
	"github.com/OldStager01/sales-forecaster/pkg/models"
)

func newSimulator() *simulator.Simulator {
	return simulator.New(simulator.Config{
		Regions:       []string{"West", "East"},
		Products:      []string{"Widget", "Gadget"},
		Subcategories: []string{"A", "B"},
		FeatureCount:  3,
	})
}

func TestSimulator_CatalogSorted(t *testing.T) {
	sim := newSimulator()
	assert.Equal(t, []string{"East", "West"}, sim.Regions())
	assert.Equal(t, []string{"Gadget", "Widget"}, sim.Products())
	assert.Equal(t, []string{"A", "B"}, sim.Subcategories())
	assert.Equal(t, 3, sim.FeatureCount())
}

func TestSimulator_Defaults(t *testing.T) {
	sim := simulator.New(simulator.Config{})
	assert.Equal(t, 8, sim.FeatureCount())
	assert.NotEmpty(t, sim.Regions())
	assert.Contains(t, sim.Metrics(), "profit_r2")
}

func TestSimulator_PredictFeatures(t *testing.T) {
	sim := newSimulator()

	zero, err := sim.PredictFeatures("profit", []float64{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 12.5, zero)

	one, err := sim.PredictFeatures("profit", []float64{1, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 14.25, one, 1e-9)

	_, err = sim.PredictFeatures("revenue", []float64{1, 2, 3})
	assert.ErrorIs(t, err, simulator.ErrUnknownModel)

	_, err = sim.PredictFeatures("quantity", []float64{1})
	assert.ErrorIs(t, err, simulator.ErrFeatureCount)
}

func TestSimulator_PredictFields(t *testing.T) {
	sim := newSimulator()
	valid := models.FieldsPredictionRequest{
		Region:      "East",
		ProductName: "Widget",
		SubCategory: "A",
		OrderDate:   "2024-06-15",
		Model:       "quantity",
	}

	tests := []struct {
		name    string
		modify  func(*models.FieldsPredictionRequest)
		wantErr error
	}{
		{"valid", func(r *models.FieldsPredictionRequest) {}, nil},
		{"unknown region", func(r *models.FieldsPredictionRequest) { r.Region = "North" }, simulator.ErrUnknownValue},
		{"unknown product", func(r *models.FieldsPredictionRequest) { r.ProductName = "Gizmo" }, simulator.ErrUnknownValue},
		{"bad date", func(r *models.FieldsPredictionRequest) { r.OrderDate = "15/06/2024" }, simulator.ErrInvalidDate},
		{"unknown model", func(r *models.FieldsPredictionRequest) { r.Model = "sales" }, simulator.ErrUnknownModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)

			_, err := sim.PredictFields(req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSimulator_PredictFieldsDeterministic(t *testing.T) {
	sim := newSimulator()
	req := models.FieldsPredictionRequest{
		Region: "West", ProductName: "Gadget", SubCategory: "B", OrderDate: "2024-11-02", Model: "profit",
	}

	a, err := sim.PredictFields(req)
	require.NoError(t, err)
	b, err := sim.PredictFields(req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSeasonality(t *testing.T) {
	assert.Equal(t, 0.85, simulator.Seasonality(time.February))
	assert.Equal(t, 1.0, simulator.Seasonality(time.June))
	assert.Equal(t, 1.3, simulator.Seasonality(time.December))
}

func TestSimulator_PredictCSV(t *testing.T) {
	sim := newSimulator()

	got, err := sim.PredictCSV(strings.NewReader("a,b,c\n0,0,0\n1, 0, 0\n"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 12.5, got[0])
	assert.InDelta(t, 14.25, got[1], 1e-9)

	_, err = sim.PredictCSV(strings.NewReader("a,b,c\n1,2,3\n1,x,3\n"))
	assert.ErrorContains(t, err, "line 3")

	_, err = sim.PredictCSV(strings.NewReader("a,b,c\n"))
	assert.ErrorIs(t, err, simulator.ErrNotEnoughInput)

	_, err = sim.PredictCSV(strings.NewReader("1,2\n"))
	assert.ErrorIs(t, err, simulator.ErrFeatureCount)
}
