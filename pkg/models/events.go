package models

import "time"

type EventType string

const (
	EventTypeModuleLoaded       EventType = "module_loaded"
	EventTypeLoadFailed         EventType = "load_failed"
	EventTypeModulesReady       EventType = "modules_ready"
	EventTypeMetadataLoaded     EventType = "metadata_loaded"
	EventTypeMetadataFailed     EventType = "metadata_failed"
	EventTypePredictionRendered EventType = "prediction_rendered"
	EventTypePredictionFailed   EventType = "prediction_failed"
	EventTypeValidationFailed   EventType = "validation_failed"
	EventTypeCSVPredicted       EventType = "csv_predicted"
	EventTypeMetricsLoaded      EventType = "metrics_loaded"
)

type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// Event represents something that happened on the page
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Severity  EventSeverity `json:"severity"`
	Source    string        `json:"source,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Data      interface{}   `json:"data,omitempty"`
	TraceID   string        `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, source, message string) *Event {
	return &Event{
		ID:        NewUUID(),
		Type:      eventType,
		Severity:  SeverityInfo,
		Source:    source,
		Timestamp: time.Now(),
		Message:   message,
	}
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

func (e *Event) WithTraceID(traceID string) *Event {
	e.TraceID = traceID
	return e
}
