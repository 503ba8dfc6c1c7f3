package labels

import "maps"

// legacy maps external annotator and historical rule labels onto canonical ones
var legacy = map[string]string{
	"persName":           Name,
	"placeName":          City,
	"geogName":           Address,
	"orgName":            Company,
	"pesel":              NationalID,
	"credit-card-number": PaymentCard,
}

// Normalizer maps label spellings onto canonical labels via a fixed table
type Normalizer struct {
	table map[string]string
}

// NewNormalizer builds a normalizer from the built-in legacy table plus extra entries
// extra entries override built-ins
func NewNormalizer(extra map[string]string) Normalizer {
	t := maps.Clone(legacy)
	maps.Copy(t, extra)
	return Normalizer{table: t}
}

// DefaultNormalizer uses only the built-in table
func DefaultNormalizer() Normalizer { return NewNormalizer(nil) }

// Normalize is total: labels absent from the table pass through unchanged
func (n Normalizer) Normalize(label string) string {
	if v, ok := n.table[label]; ok {
		return v
	}
	return label
}
