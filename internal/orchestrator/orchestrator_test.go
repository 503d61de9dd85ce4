package orchestrator_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sales-forecaster/api"
	"github.com/OldStager01/sales-forecaster/internal/controller"
	"github.com/OldStager01/sales-forecaster/internal/loader"
	"github.com/OldStager01/sales-forecaster/internal/metadata"
	"github.com/OldStager01/sales-forecaster/internal/orchestrator"
	"github.com/OldStager01/sales-forecaster/internal/page"
	"github.com/OldStager01/sales-forecaster/internal/simulator"
	"github.com/OldStager01/sales-forecaster/pkg/config"
	"github.com/OldStager01/sales-forecaster/pkg/models"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "sales-forecaster", Mode: "test", LogLevel: "error"},
		Backend: config.BackendConfig{BaseURL: baseURL, Timeout: 2 * time.Second},
		Loader:  config.LoaderConfig{Modules: []string{"upload", "metrics", "dashboard"}},
		Form:    config.FormConfig{Models: []string{"profit", "quantity"}, DefaultModel: "quantity"},
		Manual:  config.ManualConfig{FeatureCount: 3, DefaultModel: "profit"},
		Events:  config.EventsConfig{BufferSize: 50},
	}
}

func startBackend(t *testing.T) string {
	t.Helper()
	sim := simulator.New(simulator.Config{
		Regions:       []string{"West", "East"},
		Products:      []string{"Widget"},
		Subcategories: []string{"A"},
		FeatureCount:  3,
	})
	srv := httptest.NewServer(api.NewServer(config.MockAPIConfig{}, "test", sim).Router())
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	cfg := testConfig(startBackend(t))
	orch := orchestrator.New(cfg, orchestrator.Options{
		Open: func(name string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("a,b,c\n0,0,0\n1,0,0\n")), nil
		},
	})
	defer orch.Stop()

	rendered := orch.SubscribeEvents(models.EventTypePredictionRendered)

	ctx := context.Background()
	require.NoError(t, orch.Start(ctx))

	p := orch.Page()
	assert.Equal(t, controller.StateReady, orch.Fields().State())
	assert.Equal(t, []string{"East", "West"}, p.Select(page.SelectRegion).Options())
	assert.Equal(t, "quantity", p.Select(page.SelectModel).Value())
	assert.Contains(t, p.Output(page.OutputMetrics).Text(), "profit_r2: 0.8100")
	assert.Equal(t, "No predictions yet", p.Output(page.OutputForecast).Text())

	// Batch upload through the upload module.
	p.Input(page.InputCSVFile).Set("orders.csv")
	p.Form(page.FormUpload).Submit(ctx)
	assert.Equal(t, "2 predictions received", p.Output(page.OutputUpload).Text())
	assert.Equal(t, []float64{12.5, 14.25}, orch.Forecasts())
	assert.Equal(t, "row\tprediction\n1\t12.50\n2\t14.25", p.Output(page.OutputForecast).Text())

	// Field-based prediction.
	p.Input(page.InputDate).Set("2024-06-15")
	p.Form(page.FormPrediction).Submit(ctx)
	assert.Empty(t, p.Output(page.OutputError).Text())
	assert.True(t, strings.HasPrefix(p.Output(page.OutputResult).Text(), "Prediction QUANTITY: "))
	assert.Equal(t, controller.StateResult, orch.Fields().State())

	select {
	case ev := <-rendered:
		assert.Equal(t, "prediction_by_fields", ev.Source)
	case <-time.After(time.Second):
		t.Fatal("no prediction_rendered event")
	}

	// Manual prediction against the same backend.
	manual := orch.Manual()
	for i := 0; i < 3; i++ {
		require.NoError(t, manual.SetFeature(i, "0"))
	}
	require.NoError(t, manual.Submit(ctx))
	assert.Equal(t, "Prediction PROFIT: 12.50", manual.ResultText())
}

func TestOrchestrator_BackendRejectsFieldRequest(t *testing.T) {
	cfg := testConfig(startBackend(t))
	cfg.Form.Models = []string{"profit", "quantity", "revenue"}

	orch := orchestrator.New(cfg, orchestrator.Options{})
	defer orch.Stop()
	require.NoError(t, orch.Start(context.Background()))

	p := orch.Page()
	p.Input(page.InputDate).Set("2024-06-15")
	require.True(t, p.Select(page.SelectModel).Choose("revenue"))
	p.Form(page.FormPrediction).Submit(context.Background())

	assert.Contains(t, p.Output(page.OutputError).Text(), "oneof")
	assert.Empty(t, p.Output(page.OutputResult).Text())
	assert.Equal(t, controller.StateError, orch.Fields().State())
}

func TestOrchestrator_UnknownModule(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Loader.Modules = []string{"upload", "charts"}

	orch := orchestrator.New(cfg, orchestrator.Options{})
	defer orch.Stop()

	err := orch.Start(context.Background())
	assert.ErrorContains(t, err, `unknown module "charts"`)
	assert.Equal(t, controller.StateUninitialized, orch.Fields().State())
}

func TestOrchestrator_BackendDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	orch := orchestrator.New(testConfig(url), orchestrator.Options{})
	defer orch.Stop()

	err := orch.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, metadata.ErrUnavailable)
	assert.False(t, errors.Is(err, loader.ErrLoadFailed))

	p := orch.Page()
	assert.Equal(t, "Loading metrics failed", p.Output(page.OutputMetrics).Text())
	assert.Equal(t, "could not load selection lists", p.Output(page.OutputError).Text())
	assert.Equal(t, 0, p.Form(page.FormPrediction).Handlers())
}

func TestOrchestrator_UploadCSVUsesModuleCapability(t *testing.T) {
	cfg := testConfig(startBackend(t))
	var opened []string
	orch := orchestrator.New(cfg, orchestrator.Options{
		Open: func(name string) (io.ReadCloser, error) {
			opened = append(opened, name)
			return io.NopCloser(strings.NewReader("0,0,0\n")), nil
		},
	})
	defer orch.Stop()

	// Nothing is registered before the modules load.
	assert.ErrorContains(t, orch.UploadCSV(context.Background(), "early.csv"), "not provided")
	assert.Empty(t, opened)

	require.NoError(t, orch.Start(context.Background()))
	_, ok := orch.Registry().Lookup("predict_csv")
	require.True(t, ok)

	require.NoError(t, orch.UploadCSV(context.Background(), "/data/orders.csv"))
	assert.Equal(t, []string{"/data/orders.csv"}, opened)
	assert.Equal(t, "1 predictions received", orch.Page().Output(page.OutputUpload).Text())
	assert.Equal(t, []float64{12.5}, orch.Forecasts())
}

func TestOrchestrator_UploadCSVWithoutUploadModule(t *testing.T) {
	cfg := testConfig(startBackend(t))
	cfg.Loader.Modules = []string{"metrics", "dashboard"}

	orch := orchestrator.New(cfg, orchestrator.Options{})
	defer orch.Stop()
	require.NoError(t, orch.Start(context.Background()))

	assert.ErrorContains(t, orch.UploadCSV(context.Background(), "orders.csv"), `capability "predict_csv" not provided`)
}
