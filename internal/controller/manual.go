package controller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/OldStager01/sales-forecaster/internal/client"
	"github.com/OldStager01/sales-forecaster/internal/events"
	"github.com/OldStager01/sales-forecaster/internal/logger"
	"github.com/OldStager01/sales-forecaster/pkg/models"
)

const manualControllerName = "manual_prediction"

var (
	ErrFeatureIndex  = errors.New("feature index out of range")
	ErrInvalidInput  = errors.New("invalid feature input")
	ErrStaleResponse = errors.New("response superseded by a newer submission")
)

// ValidationError names the first feature that did not parse.
type ValidationError struct {
	Index int
	Label string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("feature %d (%s) is not a valid number: %q", e.Index, e.Label, e.Value)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// FeaturePredictor serves predictions from a raw feature vector.
type FeaturePredictor interface {
	PredictFeatures(ctx context.Context, model models.ModelType, features []float64) (float64, error)
}

type ManualConfig struct {
	FeatureCount int
	Labels       []string
	DefaultModel models.ModelType
	Predictor    FeaturePredictor
	Publisher    *events.Publisher
}

// ManualState is a snapshot of the controller. Result and Error are never
// both set.
type ManualState struct {
	Features []string
	Model    models.ModelType
	Result   *models.PredictionResult
	Error    string
}

type ManualController struct {
	labels    []string
	predictor FeaturePredictor
	publisher *events.Publisher

	mu       sync.RWMutex
	features []string
	model    models.ModelType
	result   *models.PredictionResult
	errMsg   string
	tokens   requestTokens
}

func NewManualController(cfg ManualConfig) *ManualController {
	count := cfg.FeatureCount
	if count <= 0 {
		count = 8
	}

	labels := make([]string, count)
	for i := range labels {
		if i < len(cfg.Labels) && cfg.Labels[i] != "" {
			labels[i] = cfg.Labels[i]
		} else {
			labels[i] = fmt.Sprintf("f%d", i)
		}
	}

	model := cfg.DefaultModel
	if !model.IsValid() {
		model = models.ModelProfit
	}

	return &ManualController{
		labels:    labels,
		predictor: cfg.Predictor,
		publisher: cfg.Publisher,
		features:  make([]string, count),
		model:     model,
	}
}

func (c *ManualController) Labels() []string {
	return append([]string(nil), c.labels...)
}

// SetFeature replaces the value at index i. The previous slice is never
// written to, so snapshots taken earlier stay valid.
func (c *ManualController) SetFeature(i int, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.features) {
		return fmt.Errorf("%w: %d (have %d features)", ErrFeatureIndex, i, len(c.features))
	}

	next := make([]string, len(c.features))
	copy(next, c.features)
	next[i] = value
	c.features = next
	return nil
}

func (c *ManualController) Features() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.features...)
}

func (c *ManualController) SetModel(model models.ModelType) error {
	if !model.IsValid() {
		return fmt.Errorf("unknown model type %q", model)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
	return nil
}

func (c *ManualController) Model() models.ModelType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

func (c *ManualController) State() ManualState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state := ManualState{
		Features: append([]string(nil), c.features...),
		Model:    c.model,
		Error:    c.errMsg,
	}
	if c.result != nil {
		r := *c.result
		state.Result = &r
	}
	return state
}

// ResultText renders the last prediction, or "" when there is none.
func (c *ManualController) ResultText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.result == nil {
		return ""
	}
	return c.result.String()
}

func (c *ManualController) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}

// Submit validates every feature and, only if all of them parse, requests a
// prediction from the endpoint of the selected model. A response that
// arrives after a newer Submit started is dropped.
func (c *ManualController) Submit(ctx context.Context) error {
	ctx = logger.WithTraceID(ctx, models.NewUUID())
	log := logger.WithController(ctx, manualControllerName)

	c.mu.Lock()
	c.result = nil
	c.errMsg = ""
	features := c.features
	model := c.model
	token := c.tokens.next()
	c.mu.Unlock()

	parsed, err := c.parse(features)
	if err != nil {
		log.Warnf("Rejected manual prediction: %v", err)
		c.publisher.ValidationFailed(manualControllerName, err)
		c.settle(token, nil, err.Error())
		return err
	}

	prediction, err := c.predictor.PredictFeatures(ctx, model, parsed)
	if err != nil {
		log.Errorf("Error in predict/%s: %v", model, err)
		msg := client.UserMessage(err)
		if !c.settle(token, nil, msg) {
			return ErrStaleResponse
		}
		c.publisher.PredictionFailed(manualControllerName, msg)
		return err
	}

	result := &models.PredictionResult{Model: string(model), Value: prediction}
	if !c.settle(token, result, "") {
		log.Warn("Discarding stale manual prediction")
		return ErrStaleResponse
	}
	c.publisher.PredictionRendered(manualControllerName, *result)
	return nil
}

func (c *ManualController) parse(features []string) ([]float64, error) {
	parsed := make([]float64, len(features))
	for i, raw := range features {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ValidationError{Index: i, Label: c.labels[i], Value: raw}
		}
		parsed[i] = v
	}
	return parsed, nil
}

// settle stores the outcome of the submission holding token, unless a newer
// submission has started since.
func (c *ManualController) settle(token uint64, result *models.PredictionResult, errMsg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tokens.isLatest(token) {
		return false
	}
	c.result = result
	c.errMsg = errMsg
	return true
}
