package modules_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sales-forecaster/internal/client"
	"github.com/OldStager01/sales-forecaster/internal/loader"
	"github.com/OldStager01/sales-forecaster/internal/modules"
	"github.com/OldStager01/sales-forecaster/internal/page"
)

type fakeBackend struct {
	predictions []float64
	csvErr      error
	metrics     map[string]interface{}
	metricsErr  error

	uploads []string
}

func (f *fakeBackend) PredictCSV(_ context.Context, filename string, r io.Reader) ([]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, filename+":"+string(data))
	return f.predictions, f.csvErr
}

func (f *fakeBackend) Metrics(context.Context) (map[string]interface{}, error) {
	return f.metrics, f.metricsErr
}

func openFrom(files map[string]string) func(string) (io.ReadCloser, error) {
	return func(name string) (io.ReadCloser, error) {
		content, ok := files[name]
		if !ok {
			return nil, errors.New("open " + name + ": no such file or directory")
		}
		return io.NopCloser(strings.NewReader(content)), nil
	}
}

func loadAll(t *testing.T, deps modules.Deps) *loader.Loader {
	t.Helper()
	mods, err := modules.Build([]string{modules.NameUpload, modules.NameMetrics, modules.NameDashboard}, deps)
	require.NoError(t, err)

	l, err := loader.New(loader.Config{Modules: mods})
	require.NoError(t, err)
	require.NoError(t, l.Run(context.Background()))
	return l
}

func TestBuild_UnknownModule(t *testing.T) {
	_, err := modules.Build([]string{"upload", "charts"}, modules.Deps{Page: page.New()})
	assert.ErrorContains(t, err, `unknown module "charts"`)
}

func TestModules_LoadRendersInitialState(t *testing.T) {
	p := page.NewForecastPage([]string{"profit", "quantity"})
	backend := &fakeBackend{metrics: map[string]interface{}{
		"quantity_mae": 1.5,
		"profit_r2":    0.912345,
		"trained_on":   "2024-01-01",
	}}

	loadAll(t, modules.Deps{Page: p, CSV: backend, Metrics: backend})

	assert.Equal(t, "profit_r2: 0.9123\nquantity_mae: 1.5000\ntrained_on: 2024-01-01", p.Output(page.OutputMetrics).Text())
	assert.Equal(t, "No predictions yet", p.Output(page.OutputForecast).Text())
	assert.Equal(t, 1, p.Form(page.FormUpload).Handlers())
}

func TestMetrics_FailureDoesNotStopLoad(t *testing.T) {
	p := page.NewForecastPage(nil)
	backend := &fakeBackend{metricsErr: errors.New("connection refused")}

	loadAll(t, modules.Deps{Page: p, CSV: backend, Metrics: backend})
	assert.Equal(t, "Loading metrics failed", p.Output(page.OutputMetrics).Text())
}

func TestModules_MissingElementsFailLoad(t *testing.T) {
	mods, err := modules.Build([]string{modules.NameDashboard}, modules.Deps{Page: page.New()})
	require.NoError(t, err)

	l, err := loader.New(loader.Config{Modules: mods})
	require.NoError(t, err)
	assert.ErrorIs(t, l.Run(context.Background()), loader.ErrLoadFailed)
}

func TestUpload_SubmitUpdatesDashboard(t *testing.T) {
	p := page.NewForecastPage(nil)
	backend := &fakeBackend{predictions: []float64{10.5, 11.257}}
	forecasts := modules.NewForecasts()

	loadAll(t, modules.Deps{
		Page:      p,
		CSV:       backend,
		Metrics:   backend,
		Forecasts: forecasts,
		Open:      openFrom(map[string]string{"/tmp/data/orders.csv": "a,b\n1,2\n"}),
	})

	p.Input(page.InputCSVFile).Set("/tmp/data/orders.csv")
	ev := p.Form(page.FormUpload).Submit(context.Background())

	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, []string{"orders.csv:a,b\n1,2\n"}, backend.uploads)
	assert.Equal(t, "2 predictions received", p.Output(page.OutputUpload).Text())
	assert.Equal(t, []float64{10.5, 11.257}, forecasts.Get())
	assert.Equal(t, "row\tprediction\n1\t10.50\n2\t11.26", p.Output(page.OutputForecast).Text())
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		csvErr     error
		wantErr    error
		wantStatus string
	}{
		{
			name:       "no file selected",
			file:       "  ",
			wantErr:    modules.ErrNoFile,
			wantStatus: "Select a CSV file first",
		},
		{
			name:       "backend rejects file",
			file:       "orders.csv",
			csvErr:     &client.RequestError{StatusCode: 400, Detail: "missing column region"},
			wantStatus: "missing column region",
		},
		{
			name:       "file cannot be opened",
			file:       "missing.csv",
			wantStatus: "open missing.csv: no such file or directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := page.NewForecastPage(nil)
			backend := &fakeBackend{csvErr: tt.csvErr}
			l := loadAll(t, modules.Deps{
				Page:    p,
				CSV:     backend,
				Metrics: backend,
				Open:    openFrom(map[string]string{"orders.csv": "x\n"}),
			})

			p.Input(page.InputCSVFile).Set(tt.file)
			err := l.Registry().Invoke(context.Background(), modules.CapabilityPredictCSV)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantStatus, p.Output(page.OutputUpload).Text())
			assert.Equal(t, "No predictions yet", p.Output(page.OutputForecast).Text())
		})
	}
}

func TestFormatForecasts(t *testing.T) {
	assert.Equal(t, "No predictions yet", modules.FormatForecasts(nil))
	assert.Equal(t, "row\tprediction\n1\t3.00", modules.FormatForecasts([]float64{3}))
}

func TestForecasts_SetNotifiesListeners(t *testing.T) {
	f := modules.NewForecasts()

	var first, second [][]float64
	f.OnChange(func(p []float64) { first = append(first, p) })
	f.OnChange(func(p []float64) { second = append(second, p) })

	input := []float64{1, 2}
	f.Set(input)
	input[0] = 99

	assert.Equal(t, [][]float64{{1, 2}}, first)
	assert.Equal(t, [][]float64{{1, 2}}, second)
	assert.Equal(t, []float64{1, 2}, f.Get())

	// A listener may register another one without deadlocking.
	f.OnChange(func([]float64) { f.OnChange(func([]float64) {}) })
	f.Set([]float64{3})
	assert.Len(t, first, 2)
}
