package modules

import "sync"

// Forecasts holds the latest batch of CSV predictions and tells listeners
// when it changes.
type Forecasts struct {
	mu          sync.RWMutex
	predictions []float64
	listeners   []func([]float64)
}

func NewForecasts() *Forecasts {
	return &Forecasts{}
}

func (f *Forecasts) Set(predictions []float64) {
	f.mu.Lock()
	f.predictions = append([]float64(nil), predictions...)
	snapshot := append([]float64(nil), f.predictions...)
	listeners := make([]func([]float64), len(f.listeners))
	copy(listeners, f.listeners)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (f *Forecasts) Get() []float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]float64(nil), f.predictions...)
}

func (f *Forecasts) OnChange(fn func([]float64)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}
