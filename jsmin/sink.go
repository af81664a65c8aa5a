package jsmin

import "bytes"

// Sink is the output of a minification pass. It is parameterized so
// that the single scanner implementation below can be reused for both
// "emit the minified bytes" and "count the minified size" callers,
// per the transition-table/sink design noted for this scanner.
type Sink interface {
	// PushByte appends a single byte to the sink.
	PushByte(b byte)

	// AppendSpan appends a byte span to the sink. The sink must not
	// retain p beyond the call.
	AppendSpan(p []byte)
}

// byteSink is a Sink that accumulates the minified bytes themselves.
type byteSink struct {
	buf bytes.Buffer
}

func (s *byteSink) PushByte(b byte)     { s.buf.WriteByte(b) }
func (s *byteSink) AppendSpan(p []byte) { s.buf.Write(p) }

// sizeSink is a Sink that only counts the minified size, never
// materializing the output bytes.
type sizeSink struct {
	n int
}

func (s *sizeSink) PushByte(b byte)     { s.n++ }
func (s *sizeSink) AppendSpan(p []byte) { s.n += len(p) }
