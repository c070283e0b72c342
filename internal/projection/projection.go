// Package projection renders entities into field-selected serializable
// trees. A Selection either includes an explicit field set or excludes one,
// never both; nested per-entity selections travel in the Context.
package projection

import (
	"encoding/json"
	"fmt"
)

// Selection restricts which top-level fields of a projection survive.
// Fields and Exclude are mutually exclusive per call. An empty Selection
// keeps everything.
type Selection struct {
	Fields  []string
	Exclude []string
}

// Context carries nested per-related-entity selections plus the identity of
// the viewer, used to compute viewer-relative values such as unread counts.
type Context struct {
	ViewerID uint
	Nested   map[string]Selection
}

// For returns the nested selection registered under key, or an empty
// selection that keeps all fields.
func (c Context) For(key string) Selection {
	if c.Nested == nil {
		return Selection{}
	}
	return c.Nested[key]
}

// Project renders v to a map keyed by json tag with the selection applied.
// Field selection must not change result identity: the projected entity is
// the same row, just narrower.
func Project(v any, sel Selection) (map[string]any, error) {
	if len(sel.Fields) > 0 && len(sel.Exclude) > 0 {
		return nil, fmt.Errorf("projection: fields and exclude are mutually exclusive")
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("projection: marshal: %w", err)
	}

	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("projection: unmarshal: %w", err)
	}

	if len(sel.Fields) > 0 {
		kept := make(map[string]any, len(sel.Fields))
		for _, field := range sel.Fields {
			if value, ok := tree[field]; ok {
				kept[field] = value
			}
		}
		return kept, nil
	}

	for _, field := range sel.Exclude {
		delete(tree, field)
	}
	return tree, nil
}

// ProjectList projects each element of a slice with the same selection.
func ProjectList[T any](items []T, sel Selection) ([]map[string]any, error) {
	trees := make([]map[string]any, 0, len(items))
	for _, item := range items {
		tree, err := Project(item, sel)
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	return trees, nil
}
