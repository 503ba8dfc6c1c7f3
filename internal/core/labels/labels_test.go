package labels

import "testing"

func TestCanonical_Size(t *testing.T) {
	t.Parallel()
	all := Canonical()
	if len(all) != 26 {
		t.Fatalf("canonical set size=%d want 26", len(all))
	}
	for _, l := range all {
		if !IsCanonical(l) {
			t.Fatalf("%q should be canonical", l)
		}
	}
	all[0] = "mutated"
	if !IsCanonical(Name) {
		t.Fatalf("Canonical must return a copy")
	}
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		NationalID:  "[NATIONAL-ID-NUMBER]",
		PaymentCard: "[PAYMENT-CARD-NUMBER]",
		None:        "[NONE]",
		"persName":  "[UNKNOWN]",
		"":          "[UNKNOWN]",
	}
	for in, want := range cases {
		if got := Placeholder(in); got != want {
			t.Fatalf("Placeholder(%q)=%q want %q", in, got, want)
		}
	}

	p := Placeholders{Open: "<", Close: ">", Unknown: "<?>"}
	if got := p.For(Email); got != "<EMAIL>" {
		t.Fatalf("custom delimiters: got %q", got)
	}
}

func TestNormalizer(t *testing.T) {
	t.Parallel()
	n := DefaultNormalizer()
	cases := map[string]string{
		"persName":           Name,
		"placeName":          City,
		"geogName":           Address,
		"pesel":              NationalID,
		"credit-card-number": PaymentCard,
		Email:                Email,
		"unheard-of":         "unheard-of",
	}
	for in, want := range cases {
		if got := n.Normalize(in); got != want {
			t.Fatalf("Normalize(%q)=%q want %q", in, got, want)
		}
	}

	custom := NewNormalizer(map[string]string{"orgName": SchoolName, "PER": Name})
	if custom.Normalize("orgName") != SchoolName || custom.Normalize("PER") != Name {
		t.Fatalf("extra entries must override and extend the table")
	}
	if n.Normalize("orgName") != Company {
		t.Fatalf("custom normalizer leaked into default table")
	}
}
