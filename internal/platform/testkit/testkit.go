// Package testkit provides testing helpers shared across packages
package testkit

import (
	"strings"
	"testing"
)

// seams is held by tests that replace package level variables
var seams = make(chan struct{}, 1)

// Swap replaces *target with replacement until the test ends
func Swap[T any](t testing.TB, target *T, replacement T) {
	t.Helper()
	prev := *target
	t.Cleanup(func() { *target = prev })
	*target = replacement
}

// Serial blocks until no other Serial test is running and holds the seam until
// this one ends. Parallel tests that Swap the same variable call it first
func Serial(t testing.TB) {
	t.Helper()
	seams <- struct{}{}
	t.Cleanup(func() { <-seams })
}

// MustPanic asserts that fn panics and returns the recovered value
func MustPanic(t testing.TB, fn func()) (r any) {
	t.Helper()
	defer func() {
		if r = recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
	return nil
}

// MustNotPanic asserts that fn returns normally
func MustNotPanic(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain asserts that haystack contains needle
func MustContain(t testing.TB, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in:\n%s", needle, haystack)
	}
}

// Locate returns the byte offsets of the first occurrence of sub in raw
// so fixtures never hard-code offsets into multi-byte text
func Locate(t testing.TB, raw, sub string) (int, int) {
	t.Helper()
	return LocateAfter(t, raw, sub, 0)
}

// LocateAfter is Locate starting the search at byte offset from
func LocateAfter(t testing.TB, raw, sub string, from int) (int, int) {
	t.Helper()
	if from < 0 || from > len(raw) {
		t.Fatalf("offset %d out of range", from)
	}
	i := strings.Index(raw[from:], sub)
	if i < 0 || sub == "" {
		t.Fatalf("fixture %q not found in %q after %d", sub, raw, from)
	}
	return from + i, from + i + len(sub)
}
