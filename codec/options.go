package codec

// NumberMode selects how decoded numbers are represented.
type NumberMode int

const (
	// NumberNative decodes integers as int and everything else as float64.
	// Integers that do not fit in an int fall back to float64.
	NumberNative NumberMode = iota
	// NumberJSONNumber keeps the literal as json.Number.
	NumberJSONNumber
	// NumberDecimal decodes numbers as Decimal without loss of precision.
	NumberDecimal
)

func (m NumberMode) String() string {
	switch m {
	case NumberNative:
		return "native"
	case NumberJSONNumber:
		return "json-number"
	case NumberDecimal:
		return "decimal"
	}
	return "unknown"
}

// DuplicatePolicy controls duplicate object keys in JSON input. YAML input
// always rejects duplicates.
type DuplicatePolicy int

const (
	// DuplicateIgnore keeps the last occurrence.
	DuplicateIgnore DuplicatePolicy = iota
	// DuplicateError fails with a duplicate_key error.
	DuplicateError
)

// Options controls encoding and decoding.
type Options struct {
	NumberMode NumberMode
	Duplicates DuplicatePolicy
	// MaxDepth bounds nesting of decoded documents; 0 means unlimited.
	MaxDepth int
	// MaxBytes bounds the size of decoded documents; 0 means unlimited.
	MaxBytes int64
	// Indent is the per-level indentation used by encoders. Empty means compact
	// JSON and two-space YAML.
	Indent string
}

// DefaultOptions returns the options used when none are given: native numbers,
// duplicate keys rejected, depth limited to 512.
func DefaultOptions() Options {
	return Options{NumberMode: NumberNative, Duplicates: DuplicateError, MaxDepth: 512}
}

// Option adjusts Options.
type Option func(*Options)

func WithNumberMode(m NumberMode) Option { return func(o *Options) { o.NumberMode = m } }

func WithDuplicates(p DuplicatePolicy) Option { return func(o *Options) { o.Duplicates = p } }

func WithMaxDepth(n int) Option { return func(o *Options) { o.MaxDepth = n } }

func WithMaxBytes(n int64) Option { return func(o *Options) { o.MaxBytes = n } }

func WithIndent(indent string) Option { return func(o *Options) { o.Indent = indent } }

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option { return func(o *Options) { *o = opts } }

func resolve(opts []Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
