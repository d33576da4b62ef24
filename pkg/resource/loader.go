package resource

import (
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load mounts JSON or YAML content at mountPath. Object values become child
// resources (merged into existing ones), everything else becomes a property.
// Loaded content is part of the baseline and is never reported as a change.
func (t *Tree) Load(data []byte, mountPath, source string) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return fmt.Errorf("resource: content %s is empty", source)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("resource: parse %s: %w", source, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("resource: content %s must be an object", source)
	}

	mount, err := t.ensurePath(mountPath, DefaultPrimaryType, false)
	if err != nil {
		return fmt.Errorf("resource: mount %s: %w", source, err)
	}
	return t.loadMapping(mount, root, source)
}

// LoadFS reads file from fsys and mounts it at mountPath.
func (t *Tree) LoadFS(fsys fs.FS, file, mountPath string) error {
	if fsys == nil {
		return fmt.Errorf("resource: filesystem is required to load %s", file)
	}
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return fmt.Errorf("resource: read %s: %w", file, err)
	}
	return t.Load(data, mountPath, file)
}

func (t *Tree) loadMapping(target *Resource, node *yaml.Node, source string) error {
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		keyNode, valueNode := node.Content[idx], node.Content[idx+1]
		key := strings.TrimSpace(keyNode.Value)
		if key == "" {
			return fmt.Errorf("resource: %s: empty key under %s", source, target.path)
		}

		if valueNode.Kind == yaml.AliasNode && valueNode.Alias != nil {
			valueNode = valueNode.Alias
		}

		if valueNode.Kind == yaml.MappingNode {
			if !validName(key) {
				return fmt.Errorf("%w: %s: child %q under %s", ErrInvalidPath, source, key, target.path)
			}
			child := target.Child(key)
			if child == nil {
				child = t.newResource(target, key, JoinPath(target.path, key))
				target.children = append(target.children, child)
			}
			if err := t.loadMapping(child, valueNode, source); err != nil {
				return err
			}
			continue
		}

		var value any
		if err := valueNode.Decode(&value); err != nil {
			return fmt.Errorf("resource: %s: decode %s/%s: %w", source, target.path, key, err)
		}
		target.props.set(key, value)
	}
	return nil
}
