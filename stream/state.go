package stream

import (
	"errors"
	"strconv"
	"strings"
)

// State provides minimal stack/state/path management.
// Just processes events and tracks state - no tokenization, no io.Reader.
type State struct {
	stack []item
}

type itemKind int

const (
	objectItem itemKind = iota
	arrayItem
)

type item struct {
	kind   itemKind
	key    string
	n      int
	hasKey bool
}

// NewState creates a new State for tracking structure state.
func NewState() *State {
	return &State{}
}

func (s *State) pop() {
	n := len(s.stack)
	s.stack = s.stack[:n-1]
}

func (s *State) current() *item {
	n := len(s.stack)
	return &s.stack[n-1]
}

func (s *State) value() error {
	if len(s.stack) == 0 {
		return nil
	}
	cur := s.current()
	if cur.kind == objectItem && !cur.hasKey {
		return errors.New("value without key in object: " + s.CurrentPath())
	}
	cur.n++
	cur.hasKey = false
	return nil
}

// ProcessEvent processes an event and updates state/path tracking.
// Call this for each event in order.
func (s *State) ProcessEvent(event *Event) error {
	switch event.Type {
	case EventBeginObject:
		if err := s.value(); err != nil {
			return err
		}
		s.stack = append(s.stack, item{kind: objectItem})

	case EventBeginArray:
		if err := s.value(); err != nil {
			return err
		}
		s.stack = append(s.stack, item{kind: arrayItem})

	case EventEndObject, EventEndArray:
		if s.Depth() <= 0 {
			return errors.New("negative depth")
		}
		cur := s.current()
		want := objectItem
		if event.Type == EventEndArray {
			want = arrayItem
		}
		if cur.kind != want {
			return errors.New("mismatched " + event.Type.String() + " at " + s.CurrentPath())
		}
		if cur.hasKey {
			return errors.New("key, no val")
		}
		s.pop()

	case EventString, EventInt, EventFloat, EventNumber, EventBool, EventNull:
		return s.value()

	case EventKey:
		if len(s.stack) == 0 {
			return errors.New("key not in obj")
		}
		cur := s.current()
		if cur.kind != objectItem {
			return errors.New("key not in obj: " + s.CurrentPath())
		}
		if cur.hasKey {
			return errors.New("key after key")
		}
		cur.hasKey = true
		cur.key = event.Key
	}
	return nil
}

// Depth returns the current nesting depth (0 = top level).
func (s *State) Depth() int {
	return len(s.stack)
}

// CurrentPath returns the document path of the last key or element, e.g.
// "/sub[2]/name". Elements of arrays nested directly in arrays appear as
// "/[i]", matching the Nameless field holding them.
func (s *State) CurrentPath() string {
	var b strings.Builder
	fromKey := false
	for i := range s.stack {
		it := &s.stack[i]
		switch it.kind {
		case objectItem:
			if it.n == 0 && !it.hasKey {
				fromKey = false
				continue
			}
			b.WriteByte('/')
			b.WriteString(it.key)
			fromKey = true
		case arrayItem:
			if it.n == 0 {
				continue
			}
			if !fromKey {
				b.WriteByte('/')
			}
			b.WriteString("[" + strconv.Itoa(it.n-1) + "]")
			fromKey = false
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// IsInObject returns true if currently inside an object.
func (s *State) IsInObject() bool {
	return len(s.stack) != 0 && s.current().kind == objectItem
}

// IsInArray returns true if currently inside an array.
func (s *State) IsInArray() bool {
	return len(s.stack) != 0 && s.current().kind == arrayItem
}

// CurrentKey returns the pending object key (if in object).
func (s *State) CurrentKey() (string, bool) {
	if !s.IsInObject() {
		return "", false
	}
	cur := s.current()
	return cur.key, cur.hasKey
}

// CurrentIndex returns the index of the last element written (if in
// array).
func (s *State) CurrentIndex() (int, bool) {
	if !s.IsInArray() {
		return 0, false
	}
	cur := s.current()
	if cur.n == 0 {
		return 0, false
	}
	return cur.n - 1, true
}

// Count returns the number of values in the innermost container so far.
func (s *State) Count() int {
	if len(s.stack) == 0 {
		return 0
	}
	return s.current().n
}
