package normalize

import "testing"

func TestDigits_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "plain digits", in: "02070803628", out: "02070803628"},
		{name: "separators dropped", in: "4111 1111-1111 1111", out: "4111111111111111"},
		{name: "ocr lookalikes", in: "oOlIBSZqGb", out: "0011852966"},
		{name: "other letters dropped", in: "tel: 600x700", out: "600700"},
		{name: "empty", in: "", out: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Digits(tc.in); got != tc.out {
				t.Fatalf("Digits(%q)=%q want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestDigits_Idempotent(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"02070803628", "PL 61 1090 1014", "oS-lB", ""} {
		once := Digits(in)
		if twice := Digits(once); twice != once {
			t.Fatalf("Digits not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestFold_PreservesOffsets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in  string
		out string
	}{
		{"Mój PESEL", "mój pesel"},
		{"ŻÓŁĆ", "żółć"},
		{"KELVIN \u212a", "kelvin \u212a"}, // kelvin sign lowers to a 1-byte k, kept
		{"\u0130stanbul", "\u0130stanbul"}, // dotted I lowers to 1 byte, kept
	}
	for _, tc := range tests {
		got := Fold(tc.in)
		if got != tc.out {
			t.Fatalf("Fold(%q)=%q want %q", tc.in, got, tc.out)
		}
		if len(got) != len(tc.in) {
			t.Fatalf("Fold changed byte length for %q", tc.in)
		}
	}

	bad := string([]byte{'A', 0xff, 'B'})
	if got := Fold(bad); len(got) != len(bad) || got[0] != 'a' || got[2] != 'b' {
		t.Fatalf("Fold on invalid utf8 = %q", got)
	}
}

func TestText_Canonicalizes(t *testing.T) {
	t.Parallel()

	decomposed := "zo\u0301lw" // o + combining acute
	got := Text(decomposed)
	if got != "z\u00f3lw" {
		t.Fatalf("Text(%q)=%q want composed form", decomposed, got)
	}
	if !IsCanonical(got) || IsCanonical(decomposed) {
		t.Fatalf("IsCanonical mismatch")
	}
	if got := Text("a\u200bb"); got != "ab" {
		t.Fatalf("zero width space should be removed, got %q", got)
	}
	if got := Text(string([]byte{'x', 0x80})); got != "x" {
		t.Fatalf("invalid utf8 should be dropped, got %q", got)
	}
}

func TestKeyword(t *testing.T) {
	t.Parallel()
	if got := Keyword("  Data   Urodzenia "); got != "data urodzenia" {
		t.Fatalf("Keyword=%q", got)
	}
	if got := Keyword("ŻONA"); got != "żona" {
		t.Fatalf("Keyword=%q", got)
	}
}
