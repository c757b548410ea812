package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"census-reconciler/internal/common"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for StringOrArray.
// Outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// --- HeaderPatterns YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for HeaderPatterns.
// Accepts:
//   - Single string: 사원번호 (same as {all: [사원번호]})
//   - Single pattern: {all: [기준급여], none: [차]}
//   - Array of strings or patterns (alternatives)
func (h *HeaderPatterns) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.MappingNode:
		p, err := decodeHeaderPattern(node)
		if err != nil {
			return err
		}

		*h = HeaderPatterns{p}

		return nil

	case yaml.SequenceNode:
		patterns := make(HeaderPatterns, 0, len(node.Content))

		for _, item := range node.Content {
			p, err := decodeHeaderPattern(item)
			if err != nil {
				return err
			}

			patterns = append(patterns, p)
		}

		*h = patterns

		return nil

	default:
		return fmt.Errorf("expected string, map, or array, got %v", node.Kind)
	}
}

func decodeHeaderPattern(node *yaml.Node) (HeaderPattern, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return HeaderPattern{}, err
		}

		return HeaderPattern{All: StringOrArray{str}}, nil

	case yaml.MappingNode:
		var p HeaderPattern
		if err := node.Decode(&p); err != nil {
			return HeaderPattern{}, fmt.Errorf("invalid header pattern: %w", err)
		}

		return p, nil

	default:
		return HeaderPattern{}, fmt.Errorf("expected string or map in header, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for HeaderPatterns.
// Outputs a single map if length is 1, otherwise an array.
func (h HeaderPatterns) MarshalYAML() (any, error) {
	switch len(h) {
	case 0:
		return nil, nil
	case 1:
		return h[0], nil
	default:
		return []HeaderPattern(h), nil
	}
}
