// Package assert panics on wiring mistakes made when constructing
// components, these are bugs and not runtime errors.
package assert

import (
	"fmt"
	"reflect"
)

// NotNil panics when value is nil, including a nil pointer, map, slice, func
// or channel stored in an interface.
func NotNil(name string, value any) {
	if value == nil {
		panic(fmt.Sprintf("expected %s to be not nil", name))
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			panic(fmt.Sprintf("expected %s to be not nil", name))
		}
	}
}
