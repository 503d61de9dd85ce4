package controller_test

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/OldStager01/sales-forecaster/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// fakeBackend serves metadata and predictions from memory and records every
// prediction request it receives.
type fakeBackend struct {
	mu sync.Mutex

	regions, products, subcats []string
	metaErr                    error
	metaCalls                  int

	prediction float64
	predictErr error

	fieldCalls   []models.FieldsPredictionRequest
	featureCalls [][]float64
	featureModel []models.ModelType

	// When set, a prediction signals entered and waits for release.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeBackend) Regions(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metaCalls++
	return f.regions, nil
}

func (f *fakeBackend) Products(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products, f.metaErr
}

func (f *fakeBackend) Subcategories(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subcats, nil
}

func (f *fakeBackend) PredictByFields(ctx context.Context, req models.FieldsPredictionRequest) (float64, error) {
	f.mu.Lock()
	f.fieldCalls = append(f.fieldCalls, req)
	entered, release := f.entered, f.release
	f.mu.Unlock()

	f.wait(ctx, entered, release)

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prediction, f.predictErr
}

func (f *fakeBackend) PredictFeatures(ctx context.Context, model models.ModelType, features []float64) (float64, error) {
	f.mu.Lock()
	f.featureCalls = append(f.featureCalls, features)
	f.featureModel = append(f.featureModel, model)
	entered, release := f.entered, f.release
	f.mu.Unlock()

	f.wait(ctx, entered, release)

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prediction, f.predictErr
}

func (f *fakeBackend) wait(ctx context.Context, entered, release chan struct{}) {
	if entered == nil {
		return
	}
	entered <- struct{}{}
	select {
	case <-release:
	case <-ctx.Done():
	}
}

// unblock stops later calls from waiting.
func (f *fakeBackend) unblock() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entered = nil
	f.release = nil
}

func (f *fakeBackend) set(fn func(f *fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeBackend) fieldCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fieldCalls)
}

func (f *fakeBackend) featureCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.featureCalls)
}
