package span

import "testing"

func TestTextSpan_ValidIn(t *testing.T) {
	t.Parallel()
	raw := "Zażółć gęślą" // multi-byte runes

	cases := []struct {
		name string
		sp   TextSpan
		want bool
	}{
		{"whole", TextSpan{0, len(raw)}, true},
		{"empty", TextSpan{3, 3}, false},
		{"negative", TextSpan{-1, 2}, false},
		{"past end", TextSpan{0, len(raw) + 1}, false},
		{"mid rune", TextSpan{0, 3}, false}, // "Za" + first byte of ż
		{"rune aligned", TextSpan{0, 4}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sp.ValidIn(raw); got != tc.want {
				t.Fatalf("ValidIn(%v)=%v want %v", tc.sp, got, tc.want)
			}
		})
	}
}

func TestTextSpan_OverlapsContains(t *testing.T) {
	t.Parallel()
	a := TextSpan{0, 5}
	if !a.Overlaps(TextSpan{4, 8}) {
		t.Fatalf("expected overlap")
	}
	if a.Overlaps(TextSpan{5, 8}) {
		t.Fatalf("touching spans must not overlap")
	}
	if !a.Contains(TextSpan{1, 5}) || a.Contains(TextSpan{1, 6}) {
		t.Fatalf("contains mismatch")
	}
}

func TestNewHint_CutsText(t *testing.T) {
	t.Parallel()
	raw := "Jan Kowalski"
	h := NewHint(raw, 4, 12, "surname", "test")
	if h.Text != "Kowalski" || !h.Consistent(raw) {
		t.Fatalf("unexpected hint %+v", h)
	}
	h2 := h.WithLabel("name")
	if h.Label != "surname" || h2.Label != "name" {
		t.Fatalf("WithLabel must not mutate the receiver")
	}
}

func TestIndex_RoundTrip(t *testing.T) {
	t.Parallel()
	raw := "Mój dom"
	ix := NewIndex(raw)
	if ix.Runes() != 7 {
		t.Fatalf("runes=%d want 7", ix.Runes())
	}
	// "dom" is runes [4,7), bytes [5,8)
	b, ok := ix.ToBytes(TextSpan{4, 7})
	if !ok || b != (TextSpan{5, 8}) {
		t.Fatalf("ToBytes=%v ok=%v", b, ok)
	}
	r, ok := ix.ToRunes(b)
	if !ok || r != (TextSpan{4, 7}) {
		t.Fatalf("ToRunes=%v ok=%v", r, ok)
	}
	if _, ok := ix.RuneOffset(2); ok {
		t.Fatalf("byte 2 is inside ó and must not map")
	}
	if _, ok := ix.ByteOffset(99); ok {
		t.Fatalf("out of range rune offset must not map")
	}
}

func TestClassification_Rows(t *testing.T) {
	t.Parallel()
	c := Classification{
		{10, 12}: "age",
		{0, 3}:   "name",
		{0, 2}:   "none",
	}
	rows := c.Rows()
	// a shared start puts the longer span first
	if len(rows) != 3 || rows[0].End != 3 || rows[1].End != 2 || rows[2].Start != 10 {
		t.Fatalf("rows not sorted: %+v", rows)
	}
	back := FromRows(rows)
	if len(back) != 3 || back[TextSpan{0, 3}] != "name" {
		t.Fatalf("FromRows mismatch: %+v", back)
	}
}
