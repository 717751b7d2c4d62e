package tree

import "fmt"

// Func transforms the filtered children of one reduction into an
// arbitrary value. The returned value replaces the node the builder
// would have made.
type Func func(children []Value) (Value, error)

// Transformer maps rule names to transform handlers. Register all
// handlers before handing the transformer to a builder; the builder
// resolves the targets once, at construction.
type Transformer struct {
	handlers map[string]Func
	heads    []string
}

func NewTransformer() *Transformer {
	return &Transformer{
		handlers: map[string]Func{},
	}
}

// Register binds a handler to a rule name. Registering the same name
// twice is an error.
func (t *Transformer) Register(head string, fn Func) error {
	if head == "" {
		return fmt.Errorf("a transform target must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("transform target %v: a handler is missing", head)
	}
	if _, registered := t.handlers[head]; registered {
		return fmt.Errorf("transform target %v is already registered", head)
	}
	t.handlers[head] = fn
	t.heads = append(t.heads, head)
	return nil
}
