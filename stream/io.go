package stream

// EventSink receives events (builder, encoder, etc.).
type EventSink interface {
	WriteEvent(*Event) error
}

// SliceEventSink collects events in memory.
type SliceEventSink struct {
	Events []Event
}

// WriteEvent appends a copy of ev.
func (s *SliceEventSink) WriteEvent(ev *Event) error {
	s.Events = append(s.Events, *ev)
	return nil
}
