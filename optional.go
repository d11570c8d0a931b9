package lasso

// OptionalMarker wraps the definition of a mapping value whose key need not be
// present in the input. It is only meaningful as a value of a mapping definition.
type OptionalMarker struct {
	def        any
	hasDefault bool
	value      any
}

// OptionalOption configures an OptionalMarker.
type OptionalOption func(*OptionalMarker)

// Default sets the value used when the key is absent from the input. The value
// is inserted as is, without validation.
func Default(v any) OptionalOption {
	return func(o *OptionalMarker) {
		o.hasDefault = true
		o.value = v
	}
}

// Optional marks a mapping value as not required.
//
//	lasso.MustNew(map[string]any{
//		"login": lasso.Type[string](),
//		"name":  lasso.Optional(lasso.Type[string]()),
//		"age":   lasso.Optional(lasso.Type[int](), lasso.Default(0)),
//	})
func Optional(def any, opts ...OptionalOption) OptionalMarker {
	o := OptionalMarker{def: def}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Default returns the default value and whether one is configured.
func (o OptionalMarker) Default() (any, bool) { return o.value, o.hasDefault }
