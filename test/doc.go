// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectEquality(), ExpectInequality(), ExpectSuccess() and
// ExpectFailure() functions report a failure with t.Errorf() and allow the
// test to continue. The Demand*() variants use t.Fatalf() and stop the test
// immediately.
//
// The CompareWriter type is useful for testing functions that write to an
// io.Writer.
package test
