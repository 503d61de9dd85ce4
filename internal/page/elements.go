package page

import "sync"

// Select is a selection control with a closed set of string options.
type Select struct {
	id      string
	mu      sync.RWMutex
	options []string
	value   string
}

func (s *Select) ID() string { return s.id }

// SetOptions replaces every option. The value falls back to the first option
// unless the current value is still offered.
func (s *Select) SetOptions(options []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.options = append([]string(nil), options...)
	if !s.hasOption(s.value) {
		s.value = ""
		if len(s.options) > 0 {
			s.value = s.options[0]
		}
	}
}

func (s *Select) Options() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.options...)
}

// Choose selects one of the offered options.
func (s *Select) Choose(value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasOption(value) {
		return false
	}
	s.value = value
	return true
}

func (s *Select) Value() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *Select) hasOption(value string) bool {
	for _, opt := range s.options {
		if opt == value {
			return true
		}
	}
	return false
}

// Input is a free-text control.
type Input struct {
	id    string
	mu    sync.RWMutex
	value string
}

func (i *Input) ID() string { return i.id }

func (i *Input) Set(value string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.value = value
}

func (i *Input) Value() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.value
}

// Output is a region of the page that displays text.
type Output struct {
	id   string
	mu   sync.RWMutex
	text string
}

func (o *Output) ID() string { return o.id }

func (o *Output) SetText(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.text = text
}

func (o *Output) Clear() {
	o.SetText("")
}

func (o *Output) Text() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.text
}
