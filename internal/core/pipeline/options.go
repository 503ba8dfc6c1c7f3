package pipeline

import (
	"piiredact/internal/core/chunker"
	"piiredact/internal/core/classify"
	"piiredact/internal/core/consolidate"
	"piiredact/internal/core/detector"
	"piiredact/internal/core/labels"
	"piiredact/internal/core/validate"
	"piiredact/internal/platform/config"
)

// Options configures every stage of the pipeline
type Options struct {
	Detector      detector.Options
	Consolidate   consolidate.Options
	Budget        chunker.Budget
	CharsPerToken float64
	// HintRadius is the number of sentences kept on each side of a hint chunk
	HintRadius   int
	Placeholders labels.Placeholders
	Classify     classify.Options
	// FallbackOnClassifierError redacts with the consolidated entities when the classifier fails
	FallbackOnClassifierError bool
	// CanonicalizeText applies NFC to plain text input; never applied when annotator offsets are present
	CanonicalizeText bool
}

// DefaultOptions mirrors the documented defaults of each stage
func DefaultOptions() Options {
	return Options{
		Detector:      detector.DefaultOptions(),
		Consolidate:   consolidate.Options{Policy: consolidate.PolicyStrict},
		Budget:        chunker.DefaultBudget(),
		CharsPerToken: chunker.DefaultCharsPerToken,
		HintRadius:    1,
		Placeholders:  labels.DefaultPlaceholders(),
		Classify:      classify.DefaultOptions(),
	}
}

// FromConfig reads PIIREDACT_* settings over the defaults
func FromConfig(c config.Conf) Options {
	o := DefaultOptions()
	c = c.Prefix("PIIREDACT_")

	det := c.Prefix("DETECT_")
	o.Detector.Workers = det.MayInt("WORKERS", o.Detector.Workers)
	o.Detector.DisableKeywords = det.MayBool("DISABLE_KEYWORDS", false)
	o.Detector.DisableTokens = det.MayBool("DISABLE_TOKENS", false)

	ph := c.Prefix("PHONE_")
	def := validate.DefaultPhonePolicy()
	o.Detector.Phone = validate.PhonePolicy{
		MinDigits:    ph.MayInt("MIN_DIGITS", def.MinDigits),
		MaxDigits:    ph.MayInt("MAX_DIGITS", def.MaxDigits),
		CountryCodes: ph.MayCSV("COUNTRY_CODES", def.CountryCodes),
	}

	pol, _ := consolidate.ParsePolicy(c.MayEnum("CONSOLIDATE_POLICY", "strict", "strict", "lax"))
	o.Consolidate.Policy = pol

	ch := c.Prefix("CHUNK_")
	o.Budget = chunker.Budget{
		ContextWindow:    ch.MayInt("CONTEXT_WINDOW", o.Budget.ContextWindow),
		ReservedSystem:   ch.MayInt("RESERVED_SYSTEM", o.Budget.ReservedSystem),
		ReservedResponse: ch.MayInt("RESERVED_RESPONSE", o.Budget.ReservedResponse),
		SafetyMargin:     ch.MayFloat64("SAFETY_MARGIN", o.Budget.SafetyMargin),
	}
	o.CharsPerToken = ch.MayFloat64("CHARS_PER_TOKEN", o.CharsPerToken)
	o.HintRadius = ch.MayInt("HINT_RADIUS", o.HintRadius)

	cl := c.Prefix("CLASSIFY_")
	o.Classify = classify.Options{
		Workers:  cl.MayInt("WORKERS", o.Classify.Workers),
		MaxBatch: cl.MayInt("MAX_BATCH", o.Classify.MaxBatch),
		RPS:      cl.MayFloat64("RPS", o.Classify.RPS),
		Burst:    cl.MayInt("BURST", o.Classify.Burst),
	}
	o.FallbackOnClassifierError = cl.MayBool("FALLBACK", false)
	o.CanonicalizeText = c.MayBool("CANONICALIZE_TEXT", false)
	return o
}
