package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/OldStager01/sales-forecaster/internal/client"
	"github.com/OldStager01/sales-forecaster/internal/events"
	"github.com/OldStager01/sales-forecaster/internal/logger"
	"github.com/OldStager01/sales-forecaster/internal/metadata"
	"github.com/OldStager01/sales-forecaster/internal/page"
	"github.com/OldStager01/sales-forecaster/pkg/models"
	"github.com/OldStager01/sales-forecaster/pkg/validation"
)

const (
	fieldsControllerName = "prediction_by_fields"
	calculatingText      = "Calculating…"
)

var (
	ErrMissingElements = errors.New("prediction elements not found")
	ErrStaleCycle      = errors.New("initialization superseded by a newer one")
)

type FieldState string

const (
	StateUninitialized   FieldState = "uninitialized"
	StateLoadingMetadata FieldState = "loading_metadata"
	StateReady           FieldState = "ready"
	StateSubmitting      FieldState = "submitting"
	StateResult          FieldState = "result"
	StateError           FieldState = "error"
)

// FieldsPredictor serves predictions from form fields.
type FieldsPredictor interface {
	PredictByFields(ctx context.Context, req models.FieldsPredictionRequest) (float64, error)
}

type FieldsConfig struct {
	Page      *page.Page
	Metadata  *metadata.Provider
	Predictor FieldsPredictor
	Publisher *events.Publisher
	// Models is the set of model selectors the backend accepts.
	Models []string
}

// FieldController populates the prediction form and handles its submission.
type FieldController struct {
	page      *page.Page
	metadata  *metadata.Provider
	predictor FieldsPredictor
	publisher *events.Publisher
	models    []string

	mu     sync.Mutex
	state  FieldState
	cycle  *fieldCycle
	tokens requestTokens
}

// fieldCycle is everything one initialization owns.
type fieldCycle struct {
	token   uint64
	form    *page.Form
	region  *page.Select
	product *page.Select
	subcat  *page.Select
	date    *page.Input
	model   *page.Select
	result  *page.Output
	errOut  *page.Output
	guard   submitGuard
	unbind  func()
}

func NewFieldController(cfg FieldsConfig) *FieldController {
	allowed := append([]string(nil), cfg.Models...)
	if len(allowed) == 0 {
		allowed = []string{string(models.ModelProfit), string(models.ModelQuantity)}
	}

	return &FieldController{
		page:      cfg.Page,
		metadata:  cfg.Metadata,
		predictor: cfg.Predictor,
		publisher: cfg.Publisher,
		models:    allowed,
		state:     StateUninitialized,
	}
}

func (c *FieldController) State() FieldState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SubmitState reports the submission state of the current cycle.
func (c *FieldController) SubmitState() SubmitState {
	c.mu.Lock()
	cycle := c.cycle
	c.mu.Unlock()

	if cycle == nil {
		return SubmitIdle
	}
	return cycle.guard.State()
}

// Init starts a new initialization cycle: it loads the selection lists,
// fills the form and binds a single-use submit handler.
func (c *FieldController) Init(ctx context.Context) error {
	ctx = logger.WithTraceID(ctx, models.NewUUID())
	log := logger.WithController(ctx, fieldsControllerName)

	cycle := c.lookup()
	if cycle.result != nil {
		cycle.result.Clear()
	}
	if cycle.errOut != nil {
		cycle.errOut.Clear()
	}
	if cycle.form == nil || cycle.region == nil || cycle.product == nil || cycle.subcat == nil ||
		cycle.date == nil || cycle.model == nil || cycle.result == nil || cycle.errOut == nil {
		log.Warn("Prediction elements not found")
		return ErrMissingElements
	}

	c.mu.Lock()
	cycle.token = c.tokens.next()
	if c.cycle != nil && c.cycle.unbind != nil {
		c.cycle.unbind()
	}
	c.cycle = cycle
	c.state = StateLoadingMetadata
	c.mu.Unlock()

	set, err := c.metadata.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tokens.isLatest(cycle.token) {
		log.Warn("Discarding metadata for a superseded initialization")
		return ErrStaleCycle
	}

	if err != nil {
		log.Errorf("Error loading metadata: %v", err)
		cycle.errOut.SetText(metadata.ErrUnavailable.Error())
		c.state = StateError
		c.publisher.MetadataFailed(fieldsControllerName, err)
		return err
	}

	cycle.region.SetOptions(set.Regions)
	cycle.product.SetOptions(set.Products)
	cycle.subcat.SetOptions(set.Subcategories)
	c.publisher.MetadataLoaded(fieldsControllerName, set)

	cycle.unbind = cycle.form.OnSubmit(c.submitHandler(cycle), page.Once)
	c.state = StateReady
	log.Info("Prediction form ready")

	return nil
}

func (c *FieldController) lookup() *fieldCycle {
	return &fieldCycle{
		form:    c.page.Form(page.FormPrediction),
		region:  c.page.Select(page.SelectRegion),
		product: c.page.Select(page.SelectProduct),
		subcat:  c.page.Select(page.SelectSubcat),
		date:    c.page.Input(page.InputDate),
		model:   c.page.Select(page.SelectModel),
		result:  c.page.Output(page.OutputResult),
		errOut:  c.page.Output(page.OutputError),
	}
}

func (c *FieldController) submitHandler(cycle *fieldCycle) page.SubmitHandler {
	return func(ctx context.Context, ev *page.SubmitEvent) {
		ev.PreventDefault()
		ctx = logger.WithTraceID(ctx, models.NewUUID())
		log := logger.WithController(ctx, fieldsControllerName)

		if !cycle.guard.begin() {
			log.Warn("Ignoring submission: form already submitted in this cycle")
			return
		}
		defer cycle.guard.finish()

		if !c.enter(cycle, StateSubmitting) {
			log.Warn("Ignoring submission for a superseded initialization")
			return
		}

		cycle.result.SetText(calculatingText)
		cycle.errOut.Clear()

		req := models.FieldsPredictionRequest{
			Region:      cycle.region.Value(),
			ProductName: cycle.product.Value(),
			SubCategory: cycle.subcat.Value(),
			OrderDate:   cycle.date.Value(),
			Model:       cycle.model.Value(),
		}

		if err := validation.ValidateFieldsRequest(req, c.models); err != nil {
			c.publisher.ValidationFailed(fieldsControllerName, err)
			c.showError(cycle, err.Error())
			return
		}

		prediction, err := c.predictor.PredictByFields(ctx, req)

		c.mu.Lock()
		defer c.mu.Unlock()

		if !c.tokens.isLatest(cycle.token) {
			log.Warn("Discarding prediction response for a superseded initialization")
			return
		}

		if err != nil {
			log.Errorf("Error in predict/by_fields: %v", err)
			msg := client.UserMessage(err)
			c.publisher.PredictionFailed(fieldsControllerName, msg)
			cycle.errOut.SetText(msg)
			cycle.result.Clear()
			c.state = StateError
			return
		}

		result := models.PredictionResult{Model: req.Model, Value: prediction}
		cycle.result.SetText(result.String())
		cycle.errOut.Clear()
		c.state = StateResult
		c.publisher.PredictionRendered(fieldsControllerName, result)
	}
}

// enter moves to state when cycle is still current.
func (c *FieldController) enter(cycle *fieldCycle, state FieldState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tokens.isLatest(cycle.token) {
		return false
	}
	c.state = state
	return true
}

func (c *FieldController) showError(cycle *fieldCycle, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tokens.isLatest(cycle.token) {
		return
	}
	cycle.errOut.SetText(msg)
	cycle.result.Clear()
	c.state = StateError
}
