package test

import (
	"fmt"
	"strings"
	"testing"
)

// id builds a suffix for failure messages from the optional tags
func id(tags ...any) string {
	if len(tags) == 0 {
		return ""
	}
	var s strings.Builder
	s.WriteString(" [")
	for i, t := range tags {
		if i > 0 {
			s.WriteString(" ")
		}
		s.WriteString(fmt.Sprint(t))
	}
	s.WriteString("]")
	return s.String()
}

// ExpectEquality is used to test equality between one value and another
func ExpectEquality[T comparable](t *testing.T, value T, expected T, tags ...any) bool {
	t.Helper()
	if value != expected {
		t.Errorf("equality test of type %T failed: %v does not equal %v%s", value, value, expected, id(tags...))
		return false
	}
	return true
}

// ExpectInequality is used to test inequality between one value and another
func ExpectInequality[T comparable](t *testing.T, value T, unexpected T, tags ...any) bool {
	t.Helper()
	if value == unexpected {
		t.Errorf("inequality test of type %T failed: %v does equal %v%s", value, value, unexpected, id(tags...))
		return false
	}
	return true
}

// success returns true if the value indicates success: a true bool or a nil
// error. The second return value is false if the value is of an unsupported
// type
func success(v any) (bool, bool) {
	switch v := v.(type) {
	case bool:
		return v, true
	case error:
		return v == nil, true
	case nil:
		return true, true
	}
	return false, false
}

// ExpectSuccess tests argument v for a success condition suitable for its
// type. Currently supported types:
//
//	bool -> bool == true
//	error -> error == nil
//
// If type is nil then the test will succeed
func ExpectSuccess(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	ok, supported := success(v)
	if !supported {
		t.Fatalf("unsupported type (%T) for expectation testing%s", v, id(tags...))
		return false
	}
	if !ok {
		t.Errorf("a success value is expected for type %T (%v)%s", v, v, id(tags...))
		return false
	}
	return true
}

// ExpectFailure tests argument v for a failure condition suitable for its
// type. Types bool and error are treated the same as in ExpectSuccess(). If
// type is nil then the test will fail
func ExpectFailure(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	if v == nil {
		t.Errorf("a failure value is expected for nil%s", id(tags...))
		return false
	}
	ok, supported := success(v)
	if !supported {
		t.Fatalf("unsupported type (%T) for expectation testing%s", v, id(tags...))
		return false
	}
	if ok {
		t.Errorf("a failure value is expected for type %T%s", v, id(tags...))
		return false
	}
	return true
}
