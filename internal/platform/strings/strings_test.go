package strings

import (
	"testing"

	"piiredact/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	// non-empty slice should be returned as-is
	in := []int{1, 2, 3}
	got := IfEmpty(in, []int{9})
	if len(got) != 3 || got[0] != 1 {
		t.Fatalf("IfEmpty returned wrong slice: %#v", got)
	}

	var empty []string
	got2 := IfEmpty(empty, []string{"x"})
	if len(got2) != 1 || got2[0] != "x" {
		t.Fatalf("IfEmpty did not return default: %#v", got2)
	}
}

func TestMustString(t *testing.T) {
	t.Parallel()
	if got := MustString("redact", "name"); got != "redact" {
		t.Fatalf("got %q", got)
	}
	testkit.MustPanic(t, func() { MustString("  \t", "name") })
}

func TestMustPrefix(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"redact":    "/redact",
		"/redact":   "/redact",
		" /meta/ ":  "/meta",
		"//api/v1/": "/api/v1",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	for _, bad := range []string{"", " ", "/", " // "} {
		testkit.MustPanic(t, func() { MustPrefix(bad) })
	}
}
