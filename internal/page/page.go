// Package page models the prediction page without a browser: named elements
// that controllers look up by id, fill, read and submit.
package page

import "sync"

// Element ids used by the forecasting page.
const (
	FormPrediction = "prediction-form"
	SelectRegion   = "region"
	SelectProduct  = "product-name"
	SelectSubcat   = "subcat"
	InputDate      = "date"
	SelectModel    = "model-select"
	OutputResult   = "prediction-result"
	OutputError    = "prediction-error"
	FormUpload     = "upload-form"
	InputCSVFile   = "csv-file"
	OutputUpload   = "upload-status"
	OutputMetrics  = "metrics"
	OutputForecast = "forecast-table"
)

type Page struct {
	mu      sync.RWMutex
	selects map[string]*Select
	inputs  map[string]*Input
	outputs map[string]*Output
	forms   map[string]*Form
}

func New() *Page {
	return &Page{
		selects: make(map[string]*Select),
		inputs:  make(map[string]*Input),
		outputs: make(map[string]*Output),
		forms:   make(map[string]*Form),
	}
}

func (p *Page) AddSelect(id string, options ...string) *Select {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := &Select{id: id}
	s.SetOptions(options)
	p.selects[id] = s
	return s
}

func (p *Page) AddInput(id string) *Input {
	p.mu.Lock()
	defer p.mu.Unlock()

	in := &Input{id: id}
	p.inputs[id] = in
	return in
}

func (p *Page) AddOutput(id string) *Output {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := &Output{id: id}
	p.outputs[id] = out
	return out
}

func (p *Page) AddForm(id string) *Form {
	p.mu.Lock()
	defer p.mu.Unlock()

	f := &Form{id: id}
	p.forms[id] = f
	return f
}

// Select returns nil when no selection control has that id.
func (p *Page) Select(id string) *Select {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selects[id]
}

func (p *Page) Input(id string) *Input {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inputs[id]
}

func (p *Page) Output(id string) *Output {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.outputs[id]
}

func (p *Page) Form(id string) *Form {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.forms[id]
}

// NewForecastPage builds the full page the forecasting UI renders, with the
// model selector offering models.
func NewForecastPage(models []string) *Page {
	p := New()

	p.AddForm(FormPrediction)
	p.AddSelect(SelectRegion)
	p.AddSelect(SelectProduct)
	p.AddSelect(SelectSubcat)
	p.AddInput(InputDate)
	p.AddSelect(SelectModel, models...)
	p.AddOutput(OutputResult)
	p.AddOutput(OutputError)

	p.AddForm(FormUpload)
	p.AddInput(InputCSVFile)
	p.AddOutput(OutputUpload)
	p.AddOutput(OutputMetrics)
	p.AddOutput(OutputForecast)

	return p
}
