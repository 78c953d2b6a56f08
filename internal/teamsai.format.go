package internal

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// FormatValue converts a resolved value into prompt text.
// Maps, slices, arrays and structs are rendered as YAML without the trailing
// newline. nil, typed nil pointers and nil maps or slices become the empty
// string. Everything else uses fmt.Sprint.
func FormatValue(value any) (string, error) {
	if isNilValue(value) {
		return StringValueEmpty, nil
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return StringValueEmpty, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		out, err := yaml.Marshal(rv.Interface())
		if err != nil {
			return StringValueEmpty, err
		}
		return strings.TrimRight(string(out), string(CharNewline)), nil
	default:
		return fmt.Sprint(rv.Interface()), nil
	}
}

// isNilValue reports whether value is nil or holds a nil pointer, map,
// slice, interface, channel or func.
func isNilValue(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
