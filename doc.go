// Package lasso validates and coerces loosely typed data, such as the output of
// a JSON or YAML decoder, against declarative shapes, and provides Record, a
// dynamic attribute container whose contents always satisfy its shape.
//
// A shape definition is an ordinary Go value, interpreted by kind:
//
//   - a Validator (including *Schema and the combinators) validates itself;
//   - a slice, array or set (map[K]struct{}) lists alternatives for every
//     element of a container of the same kind;
//   - a string-keyed map is a closed mapping; wrap values in Optional to make
//     keys optional, with an optional Default;
//   - a reflect.Type, usually from Type[T](), requires that dynamic type;
//   - a func of one argument returning bool, error or (bool, error) is a
//     predicate;
//   - anything else must be equal to the data.
//
// And, Or, Use and Match combine and transform shapes.
//
// Typical usage:
//
//	point := lasso.MustDefine("Point", map[string]any{
//		"x": lasso.Type[int](),
//		"y": lasso.Type[int](),
//		"label": lasso.Optional(lasso.Type[string](), lasso.Default("")),
//	})
//	p, err := point.New(map[string]any{"x": 1, "y": 2})
//	err = p.Set("x", "bad") // rejected, p is unchanged
//
// Validation errors are *Failure values; see AsFailure. The codec package
// decodes JSON and YAML into records, and the values package provides UUID,
// timestamp and enumeration shapes.
package lasso
