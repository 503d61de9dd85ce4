package modules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/OldStager01/sales-forecaster/internal/loader"
	"github.com/OldStager01/sales-forecaster/internal/page"
)

const noForecastsText = "No predictions yet"

// Dashboard keeps the forecast table in sync with the latest CSV predictions.
type Dashboard struct {
	page      *page.Page
	forecasts *Forecasts
}

func NewDashboard(deps Deps) *Dashboard {
	return &Dashboard{
		page:      deps.Page,
		forecasts: deps.Forecasts,
	}
}

func (d *Dashboard) Name() string { return NameDashboard }

func (d *Dashboard) Load(_ context.Context, _ *loader.Registry) error {
	out := d.page.Output(page.OutputForecast)
	if out == nil {
		return errors.New("forecast table output not found")
	}

	out.SetText(FormatForecasts(d.forecasts.Get()))
	d.forecasts.OnChange(func(predictions []float64) {
		out.SetText(FormatForecasts(predictions))
	})
	return nil
}

// FormatForecasts renders a two-column table of row number and prediction.
func FormatForecasts(predictions []float64) string {
	if len(predictions) == 0 {
		return noForecastsText
	}

	var b strings.Builder
	b.WriteString("row\tprediction\n")
	for i, p := range predictions {
		fmt.Fprintf(&b, "%d\t%.2f\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
