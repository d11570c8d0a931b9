package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/lasso"
	"github.com/reoring/lasso/internal/decode"
)

type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Encode(v any, opts ...Option) ([]byte, error) { return EncodeYAML(v, opts...) }

func (yamlCodec) Decode(data []byte, shape lasso.Validator, opts ...Option) (any, error) {
	return DecodeYAML(data, shape, opts...)
}

// EncodeYAML renders the primitive form of v as a YAML document. Numbers kept
// as json.Number or Decimal are written with their exact literal, and integral
// floats keep a fraction.
func EncodeYAML(v any, opts ...Option) ([]byte, error) {
	o := resolve(opts)
	p, err := lasso.ToPrimitive(v)
	if err != nil {
		return nil, fmt.Errorf("codec: yaml: %w", err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	indent := 2
	if o.Indent != "" {
		indent = len(o.Indent)
	}
	enc.SetIndent(indent)
	if err := enc.Encode(yamlReady(p)); err != nil {
		return nil, fmt.Errorf("codec: yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("codec: yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// yamlNumber renders a number literal as an untagged YAML scalar.
type yamlNumber string

func (n yamlNumber) MarshalYAML() (any, error) {
	tag := "!!float"
	if _, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		tag = "!!int"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(n)}, nil
}

func yamlReady(v any) any {
	switch t := v.(type) {
	case json.Number:
		return yamlNumber(t)
	case float64:
		if lit, ok := floatLiteral(t); ok {
			return yamlNumber(lit)
		}
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = yamlReady(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = yamlReady(e)
		}
		return out
	}
	return v
}

// DecodeYAML parses the single YAML document in data and validates it with shape.
func DecodeYAML(data []byte, shape lasso.Validator, opts ...Option) (any, error) {
	tree, err := ParseYAML(data, opts...)
	if err != nil {
		return nil, err
	}
	return validate(tree, shape)
}

// ParseYAML parses the single YAML document in data into a primitive tree.
// Duplicate mapping keys are always rejected.
func ParseYAML(data []byte, opts ...Option) (any, error) {
	o := resolve(opts)
	if err := checkSize(data, o); err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DecodeError{Path: "/", Code: CodeParseError, Message: "empty input"}
		}
		return nil, &DecodeError{Path: "/", Code: CodeParseError, Message: err.Error()}
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, &DecodeError{Path: "/", Code: CodeParseError, Message: "multiple documents"}
	}
	r := yamlReader{opts: o}
	return r.node(&root, "", 0)
}

type yamlReader struct {
	opts Options
}

func (r yamlReader) node(n *yaml.Node, path string, depth int) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return r.node(n.Content[0], path, depth)
	case yaml.AliasNode:
		return r.node(n.Alias, path, depth)
	case yaml.MappingNode, yaml.SequenceNode:
		if r.opts.MaxDepth > 0 && depth+1 > r.opts.MaxDepth {
			return nil, &DecodeError{Path: pointer(path), Code: CodeParseError, Message: "max depth exceeded"}
		}
		if n.Kind == yaml.SequenceNode {
			return r.sequence(n, path, depth+1)
		}
		return r.mapping(n, path, depth+1)
	case yaml.ScalarNode:
		return r.scalar(n, path)
	}
	return nil, &DecodeError{Path: pointer(path), Code: CodeParseError, Message: fmt.Sprintf("unsupported node at line %d", n.Line)}
}

func (r yamlReader) mapping(n *yaml.Node, path string, depth int) (any, error) {
	m := make(map[string]any, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, &DecodeError{Path: pointer(path), Code: CodeParseError, Message: fmt.Sprintf("non-scalar key at line %d", k.Line)}
		}
		kp := decode.Join(path, k.Value)
		if _, dup := m[k.Value]; dup {
			return nil, &DecodeError{Path: kp, Code: CodeDuplicateKey, Message: fmt.Sprintf("key '%s' duplicated at line %d", k.Value, k.Line)}
		}
		val, err := r.node(v, kp, depth)
		if err != nil {
			return nil, err
		}
		m[k.Value] = val
	}
	return m, nil
}

func (r yamlReader) sequence(n *yaml.Node, path string, depth int) (any, error) {
	arr := make([]any, 0, len(n.Content))
	for i, c := range n.Content {
		v, err := r.node(c, decode.Join(path, strconv.Itoa(i)), depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	return arr, nil
}

func (r yamlReader) scalar(n *yaml.Node, path string) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, &DecodeError{Path: pointer(path), Code: CodeParseError, Message: err.Error()}
		}
		return b, nil
	case "!!int", "!!float":
		v, err := r.number(n)
		if err != nil {
			return nil, &DecodeError{Path: pointer(path), Code: CodeParseError, Message: err.Error()}
		}
		return v, nil
	}
	return n.Value, nil
}

func (r yamlReader) number(n *yaml.Node) (any, error) {
	if n.ShortTag() == "!!int" {
		var i int64
		if err := n.Decode(&i); err == nil {
			switch r.opts.NumberMode {
			case NumberJSONNumber:
				return json.Number(strconv.FormatInt(i, 10)), nil
			case NumberDecimal:
				return ParseDecimal(strconv.FormatInt(i, 10))
			}
			if i >= math.MinInt && i <= math.MaxInt {
				return int(i), nil
			}
			return float64(i), nil
		}
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return nil, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		if r.opts.NumberMode == NumberNative {
			return f, nil
		}
		return nil, fmt.Errorf("%s has no exact representation", n.Value)
	}
	switch r.opts.NumberMode {
	case NumberJSONNumber:
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	case NumberDecimal:
		return ParseDecimal(n.Value)
	}
	return f, nil
}

func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
