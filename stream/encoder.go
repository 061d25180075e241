package stream

import (
	"bufio"
	"encoding/base64"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/oj"
)

// Encoder writes a JSON document through explicit structure calls, keeping
// a State to place commas and to reject misplaced keys and values.
type Encoder struct {
	writer *bufio.Writer
	state  *State
	offset int64
	opts   *streamOpts
}

var quoteOpts = oj.Options{HTMLUnsafe: true}

// NewEncoder creates a new Encoder writing to w. Output is buffered until
// Flush.
func NewEncoder(w io.Writer, opts ...StreamOption) *Encoder {
	return &Encoder{
		writer: bufio.NewWriter(w),
		state:  NewState(),
		opts:   newOpts(opts),
	}
}

// Depth returns the current nesting depth (0 = top level).
func (e *Encoder) Depth() int {
	return e.state.Depth()
}

// CurrentPath returns the path of the last key or element written.
func (e *Encoder) CurrentPath() string {
	return e.state.CurrentPath()
}

// Offset returns the byte offset in the output stream.
func (e *Encoder) Offset() int64 {
	return e.offset
}

// Structure Control Methods

// BeginObject begins an object.
func (e *Encoder) BeginObject() error {
	return e.value(&Event{Type: EventBeginObject}, "{")
}

// EndObject ends an object.
func (e *Encoder) EndObject() error {
	return e.end(&Event{Type: EventEndObject}, "}")
}

// BeginArray begins an array.
func (e *Encoder) BeginArray() error {
	return e.value(&Event{Type: EventBeginArray}, "[")
}

// EndArray ends an array.
func (e *Encoder) EndArray() error {
	return e.end(&Event{Type: EventEndArray}, "]")
}

// Value Writing Methods

// WriteKey writes an object key.
func (e *Encoder) WriteKey(key string) error {
	var prefix string
	if e.state.Count() > 0 {
		prefix = ","
	}
	prefix += e.newline(e.state.Depth())
	if err := e.state.ProcessEvent(&Event{Type: EventKey, Key: key}); err != nil {
		return err
	}
	sep := ":"
	if e.opts.indent != "" {
		sep = ": "
	}
	return e.writeString(prefix + oj.JSON(key, &quoteOpts) + sep)
}

// WriteString writes a string value.
func (e *Encoder) WriteString(value string) error {
	return e.value(&Event{Type: EventString, String: value}, oj.JSON(value, &quoteOpts))
}

// WriteInt writes an integer value.
func (e *Encoder) WriteInt(value int64) error {
	return e.value(&Event{Type: EventInt, Int: value}, strconv.FormatInt(value, 10))
}

// WriteInt32 writes a 32 bit integer value.
func (e *Encoder) WriteInt32(value int32) error {
	return e.WriteInt(int64(value))
}

// WriteInt16 writes a 16 bit integer value.
func (e *Encoder) WriteInt16(value int16) error {
	return e.WriteInt(int64(value))
}

// WriteFloat writes a float value. Integral values keep a fraction so
// they read back as floats. NaN and infinities have no JSON form.
func (e *Encoder) WriteFloat(value float64) error {
	return e.writeFloat(value, 64)
}

// WriteFloat32 writes a float value with 32 bit precision.
func (e *Encoder) WriteFloat32(value float32) error {
	return e.writeFloat(float64(value), 32)
}

func (e *Encoder) writeFloat(value float64, bits int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &Error{Msg: "unsupported float value " + strconv.FormatFloat(value, 'g', -1, 64) + " at " + e.CurrentPath()}
	}
	s := strconv.FormatFloat(value, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return e.value(&Event{Type: EventFloat, Float: value}, s)
}

// WriteBigInt writes an arbitrary precision integer.
func (e *Encoder) WriteBigInt(value *big.Int) error {
	return e.WriteNumber(value.String())
}

// WriteBigFloat writes an arbitrary precision float.
func (e *Encoder) WriteBigFloat(value *big.Float) error {
	s := value.Text('g', -1)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return e.WriteNumber(s)
}

// WriteNumber writes a number given in JSON syntax.
func (e *Encoder) WriteNumber(num string) error {
	return e.value(&Event{Type: EventNumber, String: num}, num)
}

// WriteBinary writes bytes as a base64 string.
func (e *Encoder) WriteBinary(value []byte) error {
	return e.WriteString(base64.StdEncoding.EncodeToString(value))
}

// WriteBool writes a boolean value.
func (e *Encoder) WriteBool(value bool) error {
	return e.value(&Event{Type: EventBool, Bool: value}, strconv.FormatBool(value))
}

// WriteNull writes a null value.
func (e *Encoder) WriteNull() error {
	return e.value(&Event{Type: EventNull}, "null")
}

// WriteRaw writes a value which is already JSON text.
func (e *Encoder) WriteRaw(value string) error {
	return e.value(&Event{Type: EventNull}, value)
}

// WriteEvent writes ev, making the Encoder an EventSink.
func (e *Encoder) WriteEvent(ev *Event) error {
	switch ev.Type {
	case EventBeginObject:
		return e.BeginObject()
	case EventEndObject:
		return e.EndObject()
	case EventBeginArray:
		return e.BeginArray()
	case EventEndArray:
		return e.EndArray()
	case EventKey:
		return e.WriteKey(ev.Key)
	case EventString:
		return e.WriteString(ev.String)
	case EventInt:
		return e.WriteInt(ev.Int)
	case EventFloat:
		return e.WriteFloat(ev.Float)
	case EventNumber:
		return e.WriteNumber(ev.String)
	case EventBool:
		return e.WriteBool(ev.Bool)
	case EventNull:
		return e.WriteNull()
	}
	return &Error{Msg: "unknown event " + ev.Type.String()}
}

// Control Methods

// Flush writes buffered output.
func (e *Encoder) Flush() error {
	return e.writer.Flush()
}

// Reset resets the encoder to write to a new writer.
func (e *Encoder) Reset(w io.Writer, opts ...StreamOption) {
	e.writer.Reset(w)
	e.state = NewState()
	e.offset = 0
	e.opts = newOpts(opts)
}

// value writes text for a value starting event: array elements get a
// comma and line break, object values follow their key directly.
func (e *Encoder) value(ev *Event, text string) error {
	var prefix string
	if e.state.IsInArray() {
		if e.state.Count() > 0 {
			prefix = ","
		}
		prefix += e.newline(e.state.Depth())
	}
	if err := e.state.ProcessEvent(ev); err != nil {
		return err
	}
	return e.writeString(prefix + text)
}

func (e *Encoder) end(ev *Event, text string) error {
	var prefix string
	if e.state.Count() > 0 {
		prefix = e.newline(e.state.Depth() - 1)
	}
	if err := e.state.ProcessEvent(ev); err != nil {
		return err
	}
	return e.writeString(prefix + text)
}

func (e *Encoder) newline(depth int) string {
	if e.opts.indent == "" {
		return ""
	}
	return "\n" + strings.Repeat(e.opts.indent, depth)
}

// writeString writes s to the writer and updates offset.
func (e *Encoder) writeString(s string) error {
	n, err := e.writer.WriteString(s)
	e.offset += int64(n)
	return err
}
