package bridge

// Sinks fans a signal out to every sink, in order.
type Sinks []EventSink

func (s Sinks) Emit(signal string, args ...any) {
	for _, sink := range s {
		sink.Emit(signal, args...)
	}
}

// NopSink drops every signal.
type NopSink struct{}

func (NopSink) Emit(string, ...any) {}
