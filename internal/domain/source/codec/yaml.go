package codec

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/hitsource/internal/domain/source/tree"
)

var errMalformedYAML = errors.New("malformed yaml")

type yamlFormat struct{}

// decode goes through yaml.Node so mapping key order is kept.
func (yamlFormat) decode(data []byte) (*tree.Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", errMalformedYAML)
	}
	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: document root must be a mapping", errMalformedYAML)
	}
	return decodeYAMLMapping(root, 1)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func decodeYAMLMapping(n *yaml.Node, depth int) (*tree.Mapping, error) {
	if depth > maxDepth {
		return nil, errTooDeep()
	}
	m := tree.NewMapping(len(n.Content) / 2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolveAlias(n.Content[i])
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: mapping key must be a scalar", errMalformedYAML, key.Line)
		}
		v, err := decodeYAMLNode(n.Content[i+1], depth)
		if err != nil {
			return nil, err
		}
		m.Set(key.Value, v)
	}
	return m, nil
}

func decodeYAMLNode(n *yaml.Node, depth int) (tree.Value, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		m, err := decodeYAMLMapping(n, depth+1)
		if err != nil {
			return tree.Value{}, err
		}
		return tree.Map(m), nil
	case yaml.SequenceNode:
		if depth+1 > maxDepth {
			return tree.Value{}, errTooDeep()
		}
		items := make([]tree.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeYAMLNode(c, depth+1)
			if err != nil {
				return tree.Value{}, err
			}
			items = append(items, v)
		}
		return tree.Seq(items...), nil
	case yaml.ScalarNode:
		return decodeYAMLScalar(n)
	default:
		return tree.Value{}, fmt.Errorf("%w: line %d: unsupported node", errMalformedYAML, n.Line)
	}
}

func decodeYAMLScalar(n *yaml.Node) (tree.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return tree.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return tree.Value{}, err
		}
		return tree.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return tree.Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return tree.Uint(u), nil
		}
		return tree.Number(n.Value), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return tree.Value{}, err
		}
		return tree.Float(f), nil
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their text.
		return tree.String(n.Value), nil
	}
}

func (yamlFormat) encode(buf *bytes.Buffer, v tree.Value) error {
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(v)); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return nil
}

func yamlNode(v tree.Value) *yaml.Node {
	switch v.Kind() {
	case tree.KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Text()}
	case tree.KindNumber:
		if v.IsInteger() {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.Text()}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(v.Text())}
	case tree.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool())}
	case tree.KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Sequence() {
			n.Content = append(n.Content, yamlNode(item))
		}
		return n
	case tree.KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, item := range v.Mapping().All() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				yamlNode(item),
			)
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// yamlFloat spells non-finite floats the YAML way.
func yamlFloat(text string) string {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return text
	}
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	default:
		return text
	}
}
