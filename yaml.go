package predicate

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a condition definition from a YAML document.
// Sequences become shorthand lists and mappings become hashes in document
// order:
//
//	- and
//	- status: active
//	  deleted_at: null
//	- [between, age, 18, 65]
//	- [like, name, jo, {mode: startsWith}]
//
// A mapping in the options position of a like operator is read as options.
func ParseYAML(data []byte) (Condition, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode condition: %w", err)
	}
	if doc.Kind == 0 {
		return Parse(nil)
	}
	def, err := decodeNode(&doc, false)
	if err != nil {
		return nil, err
	}
	return Parse(def)
}

// decodeNode converts a YAML node into a shorthand definition. Mappings become
// Ordered hashes unless plain is set, in which case they become maps.
func decodeNode(node *yaml.Node, plain bool) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return decodeNode(node.Content[0], plain)
	case yaml.AliasNode:
		return decodeNode(node.Alias, plain)
	case yaml.SequenceNode:
		return decodeSequence(node, plain)
	case yaml.MappingNode:
		return decodeMapping(node, plain)
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
}

// decodeSequence decodes a shorthand list. Operands of non-logical operators
// (like options, composite IN rows) are plain values, not hashes.
func decodeSequence(node *yaml.Node, plain bool) (any, error) {
	out := make([]any, len(node.Content))
	var op Operator
	for i, child := range node.Content {
		v, err := decodeNode(child, plain || (i > 0 && !isLogical(op)))
		if err != nil {
			return nil, err
		}
		if i == 0 {
			if name, ok := v.(string); ok {
				op = ParseOperator(name)
			}
		}
		out[i] = v
	}
	return out, nil
}

func decodeMapping(node *yaml.Node, plain bool) (any, error) {
	if plain {
		m := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := decodeNode(node.Content[i+1], true)
			if err != nil {
				return nil, err
			}
			m[node.Content[i].Value] = v
		}
		return m, nil
	}
	entries := make(Ordered, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		v, err := decodeNode(node.Content[i+1], true)
		if err != nil {
			return nil, err
		}
		entries = append(entries, HashEntry{Column: node.Content[i].Value, Value: v})
	}
	return entries, nil
}

func isLogical(op Operator) bool {
	return op == OpAnd || op == OpOr || op == OpNot
}
