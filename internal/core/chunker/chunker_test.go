package chunker

import (
	"strings"
	"testing"

	"piiredact/internal/core/labels"
	"piiredact/internal/core/span"
)

// splitSentences returns the bounds of every "." terminated sentence, excluding
// the space that follows
func splitSentences(raw string) []span.TextSpan {
	var out []span.TextSpan
	start := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] != '.' {
			continue
		}
		out = append(out, span.TextSpan{Start: start, End: i + 1})
		start = i + 1
		for start < len(raw) && raw[start] == ' ' {
			start++
		}
		i = start - 1
	}
	if start < len(raw) {
		out = append(out, span.TextSpan{Start: start, End: len(raw)})
	}
	return out
}

// fixed estimates every sentence at n tokens
func fixed(n int) TokenEstimator { return EstimatorFunc(func(string) int { return n }) }

func TestBudget_Defaults(t *testing.T) {
	t.Parallel()
	b := DefaultBudget()
	if got := b.MaxTokens(); got != 5154 {
		t.Fatalf("MaxTokens = %d, want 5154", got)
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("default budget invalid: %v", err)
	}
	bad := []Budget{
		{ContextWindow: 0, SafetyMargin: 0.5},
		{ContextWindow: 100, ReservedSystem: 60, ReservedResponse: 40, SafetyMargin: 0.5},
		{ContextWindow: 100, SafetyMargin: 0},
		{ContextWindow: 100, ReservedSystem: -1, SafetyMargin: 0.5},
	}
	for _, b := range bad {
		if err := b.Validate(); err == nil {
			t.Fatalf("expected error for %+v", b)
		}
	}
}

func TestCharRatio(t *testing.T) {
	t.Parallel()
	cases := []struct {
		ratio float64
		text  string
		want  int
	}{
		{0, "", 1},
		{0, "abc", 1},
		{0, "abcdefgh", 2},
		{0, "abcdefghi", 2},
		{0, "żółćżółć", 2}, // runes, not bytes
		{2, "abcdef", 3},
	}
	for _, tc := range cases {
		if got := (CharRatio{CharsPerToken: tc.ratio}).Estimate(tc.text); got != tc.want {
			t.Fatalf("ratio %v %q: got %d want %d", tc.ratio, tc.text, got, tc.want)
		}
	}
}

func TestSentences_DropsInvalidBounds(t *testing.T) {
	t.Parallel()
	raw := "Ala ma kota. Kot ma Alę."
	bounds := append(splitSentences(raw), span.TextSpan{Start: 5, End: 500})
	ss := Default().Sentences(raw, bounds)
	if len(ss) != 2 {
		t.Fatalf("got %+v", ss)
	}
	if ss[1].ID != 1 || ss[1].Text != "Kot ma Alę." || ss[0].Tokens != 3 {
		t.Fatalf("unexpected sentence data %+v", ss)
	}
}

func checkCoverage(t *testing.T, raw string, chunks []span.Chunk) {
	t.Helper()
	var b strings.Builder
	pos := 0
	for _, c := range chunks {
		if c.Start != pos {
			t.Fatalf("chunk starts at %d, want %d", c.Start, pos)
		}
		if c.Text != raw[c.Start:c.End] {
			t.Fatalf("chunk text mismatch at %d", c.Start)
		}
		b.WriteString(c.Text)
		pos = c.End
	}
	if pos != len(raw) || b.String() != raw {
		t.Fatalf("chunks do not cover the document")
	}
}

func TestChunk_CoverageAndBudget(t *testing.T) {
	t.Parallel()
	raw := strings.Repeat("Jan Kowalski mieszka w Gdańsku. ", 40) + "Koniec"
	c := New(Budget{ContextWindow: 100, SafetyMargin: 0.5}, nil) // 50 tokens
	ss := c.Sentences(raw, splitSentences(raw))
	chunks := c.Chunk(ss, raw, nil)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	checkCoverage(t, raw, chunks)

	n := 0
	for _, ch := range chunks {
		n += len(ch.Sentences)
		if ch.Tokens() > 50 && len(ch.Sentences) != 1 {
			t.Fatalf("chunk over budget: %d tokens in %d sentences", ch.Tokens(), len(ch.Sentences))
		}
	}
	if n != len(ss) {
		t.Fatalf("sentences lost: %d of %d", n, len(ss))
	}
}

func TestChunk_OversizeSentenceKeptAlone(t *testing.T) {
	t.Parallel()
	raw := "A. B. C. D."
	ss := New(DefaultBudget(), fixed(1)).Sentences(raw, splitSentences(raw))
	ss[1].Tokens = 100

	c := New(Budget{ContextWindow: 10, SafetyMargin: 0.5}, nil) // 5 tokens
	chunks := c.Chunk(ss, raw, nil)
	if len(chunks) != 3 {
		t.Fatalf("want 3 chunks, got %d", len(chunks))
	}
	if len(chunks[1].Sentences) != 1 || chunks[1].Sentences[0].ID != 1 {
		t.Fatalf("oversize sentence not alone: %+v", chunks[1])
	}
	checkCoverage(t, raw, chunks)
}

func TestChunk_ZeroSentences(t *testing.T) {
	t.Parallel()
	raw := "Tekst bez zdań 02070803628"
	e := span.NewHint(raw, 16, 27, labels.NationalID, "")
	chunks := Chunk(nil, raw, []span.EntityHint{e})
	if len(chunks) != 1 || chunks[0].Text != raw || chunks[0].Start != 0 || chunks[0].End != len(raw) {
		t.Fatalf("got %+v", chunks)
	}
	if len(chunks[0].Entities) != 1 {
		t.Fatalf("entity lost: %+v", chunks[0].Entities)
	}
}

func TestChunk_EntityContainmentAndStraddling(t *testing.T) {
	t.Parallel()
	raw := "Jan Nowak. Anna Kowalska. Piotr Zieliński."
	c := New(Budget{ContextWindow: 10, SafetyMargin: 0.2}, fixed(2)) // 2 tokens: one sentence per chunk
	ss := c.Sentences(raw, splitSentences(raw))

	at := func(s string) (int, int) {
		i := strings.Index(raw, s)
		return i, i + len(s)
	}
	var es []span.EntityHint
	for _, w := range []string{"Piotr", "Jan", "Anna", "Kowalska"} {
		s, e := at(w)
		es = append(es, span.NewHint(raw, s, e, labels.Name, ""))
	}
	// "Nowak. Anna" crosses the first boundary
	s, _ := at("Nowak")
	_, e := at("Anna")
	es = append(es, span.NewHint(raw, s, e, labels.Surname, ""))

	chunks := c.Chunk(ss, raw, es)
	if len(chunks) != 3 {
		t.Fatalf("want 3 chunks, got %d", len(chunks))
	}
	checkCoverage(t, raw, chunks)

	seen := map[span.TextSpan]int{}
	for _, ch := range chunks {
		for _, e := range ch.Entities {
			if e.Start < ch.Start || e.End > ch.End {
				t.Fatalf("entity %+v outside chunk [%d,%d)", e, ch.Start, ch.End)
			}
			seen[e.TextSpan]++
		}
	}
	for sp, n := range seen {
		if n > 1 {
			t.Fatalf("entity %+v in %d chunks", sp, n)
		}
	}
	if len(seen) != 4 {
		t.Fatalf("want 4 attached entities (straddler dropped), got %d", len(seen))
	}
	if got := chunks[1].Entities; len(got) != 2 || got[0].Text != "Anna" || got[1].Text != "Kowalska" {
		t.Fatalf("second chunk entities %+v", got)
	}
}

func TestByHints_Windows(t *testing.T) {
	t.Parallel()
	raw := "Zdanie zero. Zdanie jeden. Jan tu był. Zdanie trzy. Zdanie cztery."
	ss := Default().Sentences(raw, splitSentences(raw))
	if len(ss) != 5 {
		t.Fatalf("fixture: %d sentences", len(ss))
	}
	i := strings.Index(raw, "Jan")
	h := span.NewHint(raw, i, i+3, "persName", "annotator")

	norm := labels.DefaultNormalizer()
	chunks := ByHints(ss, raw, []span.EntityHint{h}, 1, &norm)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	c := chunks[0]
	if len(c.Sentences) != 3 || c.Sentences[0].ID != 1 || c.Sentences[2].ID != 3 {
		t.Fatalf("window %+v", c.Sentences)
	}
	if c.Text != "Zdanie jeden. Jan tu był. Zdanie trzy." {
		t.Fatalf("text %q", c.Text)
	}
	if len(c.Entities) != 1 || c.Entities[0].Label != labels.Name {
		t.Fatalf("entity %+v", c.Entities)
	}

	// radius clamps at the document edges; no normalization keeps the label
	edge := span.NewHint(raw, 0, 6, "persName", "")
	chunks = ByHints(ss, raw, []span.EntityHint{edge}, 3, nil)
	if len(chunks[0].Sentences) != 4 || chunks[0].Entities[0].Label != "persName" {
		t.Fatalf("edge chunk %+v", chunks[0])
	}
}

func TestByHints_SkipsAndOrders(t *testing.T) {
	t.Parallel()
	raw := "Raz. Dwa.  Trzy."
	ss := Default().Sentences(raw, splitSentences(raw))
	gap := strings.Index(raw, "  ") + 1 // second space is between sentences
	hs := []span.EntityHint{
		span.NewHint(raw, strings.Index(raw, "Trzy"), strings.Index(raw, "Trzy")+4, labels.Name, ""),
		{TextSpan: span.TextSpan{Start: gap, End: gap + 1}, Label: labels.Name},
		span.NewHint(raw, 0, 3, labels.Name, ""),
	}
	chunks := ByHints(ss, raw, hs, 0, nil)
	if len(chunks) != 2 {
		t.Fatalf("want 2 chunks, got %+v", chunks)
	}
	if chunks[0].Entities[0].Start != 0 || chunks[1].Text != "Trzy." {
		t.Fatalf("order or window wrong: %+v", chunks)
	}

	if got := ByHints(nil, raw, hs, 1, nil); got == nil || len(got) != 0 {
		t.Fatalf("no sentences should give empty result, got %+v", got)
	}
}

func TestOrWhole(t *testing.T) {
	t.Parallel()
	c := Default()
	raw := "Mój PESEL to 02070803628, karta 4111111111111111."

	ss := c.OrWhole(raw, nil)
	if len(ss) != 1 || ss[0].Start != 0 || ss[0].End != len(raw) || ss[0].Text != raw {
		t.Fatalf("got %+v", ss)
	}
	i := strings.Index(raw, "02070803628")
	chunks := ByHints(ss, raw, []span.EntityHint{span.NewHint(raw, i, i+11, labels.NationalID, "")}, 1, nil)
	if len(chunks) != 1 || chunks[0].Text != raw {
		t.Fatalf("hint window %+v", chunks)
	}

	given := c.Sentences(raw, splitSentences(raw))
	if got := c.OrWhole(raw, given); len(got) != len(given) {
		t.Fatalf("existing sentences replaced: %+v", got)
	}
	if got := c.OrWhole("", nil); len(got) != 0 {
		t.Fatalf("empty text should give no sentences: %+v", got)
	}
}
