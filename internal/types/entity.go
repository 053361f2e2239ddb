package types

import (
	"errors"
	"fmt"
	"reflect"
)

// Entity is a document addressed by an integer id. An id of 0 means the
// entity has not been assigned one yet.
type Entity interface {
	GetId() int
	SetId(id int)
}

var ErrUnbound = errors.New("no index bound to entity type")

// Binding ties an entity type to the index that stores it.
type Binding struct {
	Index   string
	Mapping map[string]any
}

var bindings = map[reflect.Type]Binding{
	reflect.TypeFor[*User](): {Index: UserIndex, Mapping: userMapping()},
}

// BindingFor looks up the binding registered for T.
func BindingFor[T Entity]() (Binding, error) {
	t := reflect.TypeFor[T]()
	b, ok := bindings[t]
	if !ok {
		return Binding{}, fmt.Errorf("%w: %s", ErrUnbound, t)
	}
	return b, nil
}

// Bindings returns every registered binding, for index bootstrapping.
func Bindings() []Binding {
	out := make([]Binding, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b)
	}
	return out
}
