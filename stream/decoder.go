package stream

import (
	"bytes"
	"errors"
	"io"

	"github.com/ohler55/ojg/oj"
	"github.com/signadot/doctree/debug"
	"github.com/signadot/doctree/ir"
)

// tokenHandler adapts the ojg tokenizer callbacks to events. The
// tokenizer cannot be stopped from a callback, so the first error is kept
// and later tokens are ignored.
type tokenHandler struct {
	sink EventSink
	ev   Event
	err  error
}

func (h *tokenHandler) emit(t EventType) {
	if h.err != nil {
		return
	}
	h.ev.Type = t
	h.err = h.sink.WriteEvent(&h.ev)
	h.ev = Event{}
}

func (h *tokenHandler) Null() { h.emit(EventNull) }

func (h *tokenHandler) Bool(v bool) {
	h.ev.Bool = v
	h.emit(EventBool)
}

func (h *tokenHandler) Int(v int64) {
	h.ev.Int = v
	h.emit(EventInt)
}

func (h *tokenHandler) Float(v float64) {
	h.ev.Float = v
	h.emit(EventFloat)
}

func (h *tokenHandler) Number(v string) {
	h.ev.String = v
	h.emit(EventNumber)
}

func (h *tokenHandler) String(v string) {
	h.ev.String = v
	h.emit(EventString)
}

func (h *tokenHandler) Key(v string) {
	h.ev.Key = v
	h.emit(EventKey)
}

func (h *tokenHandler) ObjectStart() { h.emit(EventBeginObject) }
func (h *tokenHandler) ObjectEnd()   { h.emit(EventEndObject) }
func (h *tokenHandler) ArrayStart()  { h.emit(EventBeginArray) }
func (h *tokenHandler) ArrayEnd()    { h.emit(EventEndArray) }

// Decode reads events from r into sink.
func Decode(r io.Reader, sink EventSink) error {
	h := &tokenHandler{sink: sink}
	if err := oj.TokenizeLoad(r, h); err != nil {
		return ir.ParseError("json", err)
	}
	if h.err != nil && !errors.Is(h.err, ir.ErrDepthExceeded) {
		return ir.ParseError("json", h.err)
	}
	return h.err
}

// ReadEvents returns all events of the JSON document in r.
func ReadEvents(r io.Reader) ([]Event, error) {
	sink := &SliceEventSink{}
	if err := Decode(r, sink); err != nil {
		return nil, err
	}
	return sink.Events, nil
}

// DecodeNode decodes a JSON document into a tree.
func DecodeNode(r io.Reader, opts ...StreamOption) (*ir.Node, error) {
	b := NewBuilder(opts...)
	if err := Decode(r, b); err != nil {
		return nil, err
	}
	root, err := b.Root()
	if err != nil {
		return nil, ir.ParseError("json", err)
	}
	if debug.Parse() {
		debug.Logf("json decoded %s\n", root)
	}
	return root, nil
}

// DecodeBytes is DecodeNode on a byte slice.
func DecodeBytes(d []byte, opts ...StreamOption) (*ir.Node, error) {
	return DecodeNode(bytes.NewReader(d), opts...)
}
