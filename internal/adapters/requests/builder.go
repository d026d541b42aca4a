package requests

import "github.com/samirrijal/transitcat/internal/core/domain"

// Builder assembles a JSON-shaped value (map/slice/scalar) through a
// chainable, stateful API, failing with a LogicError on misuse — a value
// given without a pending key, a scope closed that was never opened, or a
// second root value set after the first — instead of panicking. Ported from
// the original implementation's json_builder contract.
type Builder struct {
	stack []frame
	root  interface{}
	built bool
	err   error
}

// NewBuilder returns an empty Builder with no root value set.
func NewBuilder() *Builder {
	return &Builder{}
}

type frame interface {
	kind() string
}

type dictFrame struct {
	data       map[string]interface{}
	pendingKey *string
}

func (*dictFrame) kind() string { return "dict" }

type arrayFrame struct {
	data []interface{}
}

func (*arrayFrame) kind() string { return "array" }

func (b *Builder) fail(message string) {
	if b.err == nil {
		b.err = domain.LogicError(message)
	}
}

// StartDict opens a new object scope.
func (b *Builder) StartDict() *Builder {
	if b.err != nil {
		return b
	}
	b.stack = append(b.stack, &dictFrame{data: make(map[string]interface{})})
	return b
}

// StartArray opens a new array scope.
func (b *Builder) StartArray() *Builder {
	if b.err != nil {
		return b
	}
	b.stack = append(b.stack, &arrayFrame{})
	return b
}

// Key marks the following Value (or Start*) call as the value for key k
// within the innermost open object.
func (b *Builder) Key(k string) *Builder {
	if b.err != nil {
		return b
	}
	if len(b.stack) == 0 {
		b.fail("Key called with no open object")
		return b
	}
	d, ok := b.stack[len(b.stack)-1].(*dictFrame)
	if !ok {
		b.fail("Key called outside an object scope")
		return b
	}
	if d.pendingKey != nil {
		b.fail("Key called while a previous key is still pending a value")
		return b
	}
	key := k
	d.pendingKey = &key
	return b
}

// Value supplies a scalar (or already-built composite) value: as the root if
// no scope is open, as the pending key's value inside an object, or as the
// next element inside an array.
func (b *Builder) Value(v interface{}) *Builder {
	if b.err != nil {
		return b
	}
	if len(b.stack) == 0 {
		if b.built {
			b.fail("Value called after the root value was already set")
			return b
		}
		b.root = v
		b.built = true
		return b
	}

	switch f := b.stack[len(b.stack)-1].(type) {
	case *dictFrame:
		if f.pendingKey == nil {
			b.fail("Value called inside an object with no pending key")
			return b
		}
		f.data[*f.pendingKey] = v
		f.pendingKey = nil
	case *arrayFrame:
		f.data = append(f.data, v)
		b.stack[len(b.stack)-1] = f
	}
	return b
}

// EndDict closes the innermost object scope and feeds it as a Value to
// whatever scope (or the root) sits below it.
func (b *Builder) EndDict() *Builder {
	if b.err != nil {
		return b
	}
	if len(b.stack) == 0 {
		b.fail("EndDict called with no open object")
		return b
	}
	d, ok := b.stack[len(b.stack)-1].(*dictFrame)
	if !ok {
		b.fail("EndDict called but the innermost scope is an array")
		return b
	}
	if d.pendingKey != nil {
		b.fail("EndDict called with a key pending a value")
		return b
	}
	b.stack = b.stack[:len(b.stack)-1]
	return b.Value(d.data)
}

// EndArray closes the innermost array scope and feeds it as a Value to
// whatever scope (or the root) sits below it.
func (b *Builder) EndArray() *Builder {
	if b.err != nil {
		return b
	}
	if len(b.stack) == 0 {
		b.fail("EndArray called with no open array")
		return b
	}
	a, ok := b.stack[len(b.stack)-1].(*arrayFrame)
	if !ok {
		b.fail("EndArray called but the innermost scope is an object")
		return b
	}
	b.stack = b.stack[:len(b.stack)-1]
	elements := a.data
	if elements == nil {
		elements = []interface{}{}
	}
	return b.Value(elements)
}

// Build returns the finished root value. Fails with LogicError if any scope
// is still open or if no value was ever set.
func (b *Builder) Build() (interface{}, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 0 {
		return nil, domain.LogicError("Build called with an unclosed scope")
	}
	if !b.built {
		return nil, domain.LogicError("Build called before any value was set")
	}
	return b.root, nil
}
