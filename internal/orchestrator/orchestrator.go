package orchestrator

import (
	"context"
	"fmt"
	"io"

	"github.com/OldStager01/sales-forecaster/internal/client"
	"github.com/OldStager01/sales-forecaster/internal/controller"
	"github.com/OldStager01/sales-forecaster/internal/events"
	"github.com/OldStager01/sales-forecaster/internal/loader"
	"github.com/OldStager01/sales-forecaster/internal/logger"
	"github.com/OldStager01/sales-forecaster/internal/metadata"
	"github.com/OldStager01/sales-forecaster/internal/modules"
	"github.com/OldStager01/sales-forecaster/internal/page"
	"github.com/OldStager01/sales-forecaster/pkg/config"
	"github.com/OldStager01/sales-forecaster/pkg/models"
)

// Backend is everything the page consumes from the forecasting API.
type Backend interface {
	metadata.Source
	controller.FieldsPredictor
	controller.FeaturePredictor
	modules.CSVPredictor
	modules.MetricsSource
}

type Options struct {
	// Backend overrides the HTTP client built from config.
	Backend Backend
	// Open overrides how the upload module reads files.
	Open func(name string) (io.ReadCloser, error)
}

// Orchestrator owns one page and the controllers that drive it.
type Orchestrator struct {
	config      *config.Config
	page        *page.Page
	backend     Backend
	httpClient  *client.Client
	eventBus    *events.EventBus
	eventLogger *events.EventLogger
	publisher   *events.Publisher
	forecasts   *modules.Forecasts
	fields      *controller.FieldController
	manual      *controller.ManualController
	registry    *loader.Registry
	open        func(name string) (io.ReadCloser, error)
}

func New(cfg *config.Config, opts Options) *Orchestrator {
	eventBus := events.NewEventBus(cfg.Events.BufferSize)
	eventLogger := events.NewEventLogger(eventBus.SubscribeAll())
	publisher := events.NewPublisher(eventBus)

	o := &Orchestrator{
		config:      cfg,
		page:        page.NewForecastPage(cfg.Form.Models),
		backend:     opts.Backend,
		eventBus:    eventBus,
		eventLogger: eventLogger,
		publisher:   publisher,
		forecasts:   modules.NewForecasts(),
		registry:    loader.NewRegistry(),
		open:        opts.Open,
	}

	if o.backend == nil {
		o.httpClient = client.New(client.Config{
			BaseURL: cfg.Backend.BaseURL,
			Timeout: cfg.Backend.Timeout,
		})
		o.backend = o.httpClient
	}

	if sel := o.page.Select(page.SelectModel); sel != nil && cfg.Form.DefaultModel != "" {
		sel.Choose(cfg.Form.DefaultModel)
	}

	o.fields = controller.NewFieldController(controller.FieldsConfig{
		Page:      o.page,
		Metadata:  metadata.NewProvider(o.backend),
		Predictor: o.backend,
		Publisher: publisher,
		Models:    cfg.Form.Models,
	})

	defaultModel, err := models.ParseModelType(cfg.Manual.DefaultModel)
	if err != nil {
		defaultModel = models.ModelProfit
	}
	o.manual = controller.NewManualController(controller.ManualConfig{
		FeatureCount: cfg.Manual.FeatureCount,
		Labels:       cfg.Manual.FeatureLabels,
		DefaultModel: defaultModel,
		Predictor:    o.backend,
		Publisher:    publisher,
	})

	return o
}

// Start loads the behavior modules in order and, once all of them are in,
// initializes the prediction form. A load failure leaves the page inert.
func (o *Orchestrator) Start(ctx context.Context) error {
	logger.Info("Sales forecasting page starting")
	o.eventLogger.Start()

	mods, err := modules.Build(o.config.Loader.Modules, modules.Deps{
		Page:      o.page,
		CSV:       o.backend,
		Metrics:   o.backend,
		Forecasts: o.forecasts,
		Publisher: o.publisher,
		Open:      o.open,
	})
	if err != nil {
		return fmt.Errorf("failed to build modules: %w", err)
	}

	l, err := loader.New(loader.Config{
		Modules:   mods,
		Registry:  o.registry,
		Publisher: o.publisher,
		OnReady:   o.fields.Init,
	})
	if err != nil {
		return err
	}

	return l.Run(ctx)
}

func (o *Orchestrator) Stop() {
	logger.Info("Sales forecasting page stopping")

	o.eventBus.Close()
	o.eventLogger.Stop()

	if o.httpClient != nil {
		o.httpClient.Close()
	}
}

// UploadCSV selects path in the upload input and runs the capability the
// upload module registered while loading.
func (o *Orchestrator) UploadCSV(ctx context.Context, path string) error {
	input := o.page.Input(page.InputCSVFile)
	if input == nil {
		return fmt.Errorf("upload input %q not found", page.InputCSVFile)
	}
	input.Set(path)
	return o.registry.Invoke(ctx, modules.CapabilityPredictCSV)
}

// Registry holds the capabilities modules provided during Start.
func (o *Orchestrator) Registry() *loader.Registry {
	return o.registry
}

func (o *Orchestrator) Page() *page.Page {
	return o.page
}

func (o *Orchestrator) Fields() *controller.FieldController {
	return o.fields
}

func (o *Orchestrator) Manual() *controller.ManualController {
	return o.manual
}

func (o *Orchestrator) Forecasts() []float64 {
	return o.forecasts.Get()
}

func (o *Orchestrator) SubscribeEvents(eventType models.EventType) <-chan *models.Event {
	return o.eventBus.Subscribe(eventType)
}

func (o *Orchestrator) SubscribeAllEvents() <-chan *models.Event {
	return o.eventBus.SubscribeAll()
}
