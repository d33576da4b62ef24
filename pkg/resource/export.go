package resource

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Export serialises res and its descendants as YAML in the same shape Load
// accepts, keeping property and child order.
func Export(res *Resource) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("%w: nothing to export", ErrNotFound)
	}
	node, err := exportNode(res)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("resource: export %s: %w", res.path, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("resource: export %s: %w", res.path, err)
	}
	return buf.Bytes(), nil
}

func exportNode(res *Resource) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range res.props.Keys() {
		value, _ := res.props.Get(key)
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(value); err != nil {
			return nil, fmt.Errorf("resource: export %s/%s: %w", res.path, key, err)
		}
		out.Content = append(out.Content, scalarKey(key), valueNode)
	}
	for _, child := range res.children {
		childNode, err := exportNode(child)
		if err != nil {
			return nil, err
		}
		out.Content = append(out.Content, scalarKey(child.name), childNode)
	}
	return out, nil
}

func scalarKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}
