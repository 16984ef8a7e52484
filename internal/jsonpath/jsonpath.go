// Package jsonpath resolves a dotted path through a nested mapping, the way
// the bridge needs for parent/routing field
// extraction.
package jsonpath

import "strings"

// Resolve descends node one dotted-path segment at a time. At each step, if
// the current node is not a map[string]interface{} or the next segment is
// missing from it, Resolve returns (nil, false). An empty trailing segment
// (a path ending in ".") returns the parent's current child as-is.
//
// Non-string terminal values are returned as-is; it is the caller's job
// (parent/routing extraction requires a string) to type-assert the result.
func Resolve(node interface{}, path string) (interface{}, bool) {
	if path == "" {
		return node, true
	}

	segments := strings.Split(path, ".")
	current := node

	for i, seg := range segments {
		if seg == "" {
			// Trailing empty segment: the parent's current child is the answer.
			if i == len(segments)-1 {
				return current, true
			}
			return nil, false
		}

		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}

		val, exists := m[seg]
		if !exists {
			return nil, false
		}
		current = val
	}

	return current, true
}

// ResolveString is Resolve followed by a string type assertion, the shape
// the bulk-docs engine actually needs for parent/routing field extraction. It returns
// ("", false) when the path resolves to nothing or to a non-string value.
func ResolveString(node interface{}, path string) (string, bool) {
	val, ok := Resolve(node, path)
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}
