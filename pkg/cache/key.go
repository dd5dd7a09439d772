package cache

import (
	"fmt"
	"reflect"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// Key builds a deterministic key from the given parameters. Pointers are
// dereferenced and nil renders as "nil", so (nil, "x") and ("", "x") differ.
func Key(parts ...any) string {
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = keyPart(part)
	}
	return strings.Join(out, KeySeparator)
}

func keyPart(v any) string {
	if v == nil {
		return "nil"
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "nil"
		}
		return keyPart(rv.Elem().Interface())
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
