package span

import (
	"sort"
	"unicode/utf8"
)

// Index converts between rune offsets (what most annotators report) and byte offsets
type Index struct {
	// byteAt[i] is the byte offset of rune i; byteAt[n] == len(text)
	byteAt []int
}

// NewIndex builds an offset index over text
func NewIndex(text string) *Index {
	ix := &Index{byteAt: make([]int, 0, utf8.RuneCountInString(text)+1)}
	for i := range text {
		ix.byteAt = append(ix.byteAt, i)
	}
	ix.byteAt = append(ix.byteAt, len(text))
	return ix
}

// Runes returns the number of runes in the indexed text
func (ix *Index) Runes() int { return len(ix.byteAt) - 1 }

// ByteOffset maps a rune offset to a byte offset, ok=false when out of range
func (ix *Index) ByteOffset(r int) (int, bool) {
	if r < 0 || r >= len(ix.byteAt) {
		return 0, false
	}
	return ix.byteAt[r], true
}

// RuneOffset maps a byte offset to a rune offset, ok=false when b is not a rune boundary
func (ix *Index) RuneOffset(b int) (int, bool) {
	i := sort.SearchInts(ix.byteAt, b)
	if i >= len(ix.byteAt) || ix.byteAt[i] != b {
		return 0, false
	}
	return i, true
}

// ToBytes converts a rune span into a byte span
func (ix *Index) ToBytes(s TextSpan) (TextSpan, bool) {
	st, ok1 := ix.ByteOffset(s.Start)
	en, ok2 := ix.ByteOffset(s.End)
	if !ok1 || !ok2 {
		return TextSpan{}, false
	}
	return TextSpan{Start: st, End: en}, true
}

// ToRunes converts a byte span into a rune span
func (ix *Index) ToRunes(s TextSpan) (TextSpan, bool) {
	st, ok1 := ix.RuneOffset(s.Start)
	en, ok2 := ix.RuneOffset(s.End)
	if !ok1 || !ok2 {
		return TextSpan{}, false
	}
	return TextSpan{Start: st, End: en}, true
}
