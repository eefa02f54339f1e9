package cfgtree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const indentWidth = 2

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// Unmarshal parses YAML text into a tree.
func Unmarshal(data []byte) (*Tree, error) {
	return Decode(bytes.NewReader(data))
}

// Decode parses a single YAML document whose root is a mapping. Empty input
// yields an empty tree. Malformed input, duplicate keys and non-scalar keys
// fail with a *ParseError.
func Decode(r io.Reader) (*Tree, error) {
	dec := yaml.NewDecoder(r)

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return New(), nil
		}
		return nil, syntaxError(err)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return nil, &ParseError{Line: extra.Line, Column: extra.Column, Message: "multiple documents are not supported"}
	} else if !errors.Is(err, io.EOF) {
		return nil, syntaxError(err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return New(), nil
		}
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return New(), nil
	}

	n, err := fromYAML(root)
	if err != nil {
		return nil, err
	}
	m, ok := n.AsMap()
	if !ok {
		return nil, &ParseError{Line: root.Line, Column: root.Column,
			Message: fmt.Sprintf("top level must be a mapping, found %s", n.Kind())}
	}
	return FromMap(m), nil
}

func syntaxError(err error) error {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	pe := &ParseError{Message: msg, Err: err}
	if m := yamlLineRe.FindStringSubmatch(msg); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
		pe.Message = strings.TrimSpace(strings.TrimPrefix(strings.Replace(msg, m[0], "", 1), ":"))
	}
	return pe
}

func fromYAML(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.AliasNode:
		if y.Alias == nil {
			return nil, &ParseError{Line: y.Line, Column: y.Column, Message: "unknown alias " + y.Value}
		}
		return fromYAML(y.Alias)
	case yaml.MappingNode:
		return mappingFromYAML(y)
	case yaml.SequenceNode:
		items := make([]*Node, 0, len(y.Content))
		for _, c := range y.Content {
			item, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return List(items...), nil
	case yaml.ScalarNode:
		return scalarFromYAML(y)
	default:
		return nil, &ParseError{Line: y.Line, Column: y.Column, Message: "unexpected document structure"}
	}
}

func mappingFromYAML(y *yaml.Node) (*Node, error) {
	m := NewMap()
	seen := make(map[string]int, len(y.Content)/2)
	for i := 0; i+1 < len(y.Content); i += 2 {
		k, v := y.Content[i], y.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, &ParseError{Line: k.Line, Column: k.Column, Message: "mapping keys must be scalars"}
		}
		if first, dup := seen[k.Value]; dup {
			return nil, &ParseError{Line: k.Line, Column: k.Column,
				Message: fmt.Sprintf("duplicate key %q (first defined at line %d)", k.Value, first)}
		}
		seen[k.Value] = k.Line
		value, err := fromYAML(v)
		if err != nil {
			return nil, err
		}
		m.Set(k.Value, value)
	}
	return Branch(m), nil
}

func scalarFromYAML(y *yaml.Node) (*Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, scalarError(y, err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := y.Decode(&i); err == nil {
			return Int(i), nil
		}
		// Out of int64 range; keep the magnitude as a float.
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, scalarError(y, err)
		}
		return Float(f), nil
	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, scalarError(y, err)
		}
		return Float(f), nil
	default:
		return String(y.Value), nil
	}
}

func scalarError(y *yaml.Node, err error) error {
	return &ParseError{Line: y.Line, Column: y.Column,
		Message: fmt.Sprintf("invalid %s value %q", y.ShortTag(), y.Value), Err: err}
}

// Marshal renders t as YAML.
func Marshal(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes t as block style YAML in insertion order.
func Encode(w io.Writer, t *Tree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(indentWidth)
	if err := enc.Encode(toYAML(Branch(t.root))); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush config: %w", err)
	}
	return nil
}

func toYAML(n *Node) *yaml.Node {
	switch n.Kind() {
	case KindMap:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if n.m.Len() == 0 {
			y.Style = yaml.FlowStyle
		}
		n.m.Range(func(key string, value *Node) bool {
			y.Content = append(y.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				toYAML(value))
			return true
		})
		return y
	case KindList:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(n.list) == 0 {
			y.Style = yaml.FlowStyle
		}
		for _, item := range n.list {
			y.Content = append(y.Content, toYAML(item))
		}
		return y
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(n.b)}
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(n.i, 10)}
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(n.f)}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.s}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
