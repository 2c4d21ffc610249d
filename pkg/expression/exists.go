// Package expression holds predicates bot code can call by name.
package expression

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aretw0/dialogs/pkg/domain"
)

// Exists reports whether v holds a value.
// Nil, typed-nil pointers, maps, slices, funcs, interfaces, chans and absent
// Optionals do not exist. Zero values such as "" or 0 do.
func Exists(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case domain.Optional:
		return x.IsPresent()
	case *domain.Optional:
		return x != nil && x.IsPresent()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// Function is a named predicate or helper callable from bot code.
type Function func(args ...any) (any, error)

// Functions is the built-in lookup table.
var Functions = map[string]Function{
	"exists": func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("exists expects 1 argument, got %d", len(args))
		}
		return Exists(args[0]), nil
	},
}

// Lookup returns a function by name.
func Lookup(name string) (Function, bool) {
	fn, ok := Functions[name]
	return fn, ok
}

// Call invokes the named function.
func Call(name string, args ...any) (any, error) {
	fn, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	return fn(args...)
}

// Names lists the registered functions.
func Names() []string {
	names := make([]string, 0, len(Functions))
	for name := range Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
