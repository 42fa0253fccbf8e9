package test

import "testing"

// DemandEquality is used to test equality between one value and another. If
// the test fails it is a fatal error and the test will end immediately
func DemandEquality[T comparable](t *testing.T, value T, expected T, tags ...any) {
	t.Helper()
	if value != expected {
		t.Fatalf("equality test of type %T failed: %v does not equal %v%s", value, value, expected, id(tags...))
	}
}

// DemandSuccess is like ExpectSuccess but ends the test immediately on failure
func DemandSuccess(t *testing.T, v any, tags ...any) {
	t.Helper()
	ok, supported := success(v)
	if !supported {
		t.Fatalf("unsupported type (%T) for expectation testing%s", v, id(tags...))
	}
	if !ok {
		t.Fatalf("a success value is expected for type %T (%v)%s", v, v, id(tags...))
	}
}

// DemandFailure is like ExpectFailure but ends the test immediately on failure
func DemandFailure(t *testing.T, v any, tags ...any) {
	t.Helper()
	if v == nil {
		t.Fatalf("a failure value is expected for nil%s", id(tags...))
	}
	ok, supported := success(v)
	if !supported {
		t.Fatalf("unsupported type (%T) for expectation testing%s", v, id(tags...))
	}
	if ok {
		t.Fatalf("a failure value is expected for type %T%s", v, id(tags...))
	}
}
