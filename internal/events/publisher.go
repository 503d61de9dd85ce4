package events

import (
	"github.com/OldStager01/sales-forecaster/pkg/models"
)

// Publisher emits typed page events. A nil *Publisher is valid and drops
// everything, so components can run without a bus.
type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	if p == nil {
		return nil
	}
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p == nil || p.bus == nil {
		return
	}
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) ModuleLoaded(module string, index int) {
	event := models.NewEvent(models.EventTypeModuleLoaded, module, "Module loaded: "+module).
		WithData(map[string]interface{}{"index": index})
	p.publish(event)
}

func (p *Publisher) LoadFailed(module string, err error) {
	event := models.NewEvent(models.EventTypeLoadFailed, module, "Module failed to load: "+module).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{"error": err.Error()})
	p.publish(event)
}

func (p *Publisher) ModulesReady(count int) {
	event := models.NewEvent(models.EventTypeModulesReady, "loader", "All modules loaded").
		WithData(map[string]interface{}{"count": count})
	p.publish(event)
}

func (p *Publisher) MetadataLoaded(source string, set *models.MetadataSet) {
	event := models.NewEvent(models.EventTypeMetadataLoaded, source, "Selection lists loaded").
		WithData(set)
	p.publish(event)
}

func (p *Publisher) MetadataFailed(source string, err error) {
	event := models.NewEvent(models.EventTypeMetadataFailed, source, "Selection lists failed to load").
		WithSeverity(models.SeverityWarning).
		WithData(map[string]interface{}{"error": err.Error()})
	p.publish(event)
}

func (p *Publisher) PredictionRendered(source string, result models.PredictionResult) {
	event := models.NewEvent(models.EventTypePredictionRendered, source, result.String()).
		WithData(result)
	p.publish(event)
}

func (p *Publisher) PredictionFailed(source, message string) {
	event := models.NewEvent(models.EventTypePredictionFailed, source, "Prediction failed: "+message).
		WithSeverity(models.SeverityWarning)
	p.publish(event)
}

func (p *Publisher) ValidationFailed(source string, err error) {
	event := models.NewEvent(models.EventTypeValidationFailed, source, err.Error()).
		WithSeverity(models.SeverityWarning)
	p.publish(event)
}

func (p *Publisher) CSVPredicted(source string, predictions []float64) {
	event := models.NewEvent(models.EventTypeCSVPredicted, source, "CSV predictions received").
		WithData(predictions)
	p.publish(event)
}

func (p *Publisher) MetricsLoaded(source string, metrics map[string]interface{}) {
	event := models.NewEvent(models.EventTypeMetricsLoaded, source, "Model metrics loaded").
		WithData(metrics)
	p.publish(event)
}
