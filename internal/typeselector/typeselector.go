// Package typeselector provides constructors for services.TypeSelector, a
// pluggable capability mapping (index, id) to a type string, with variants
// for a constant type, a type taken from the id's prefix (DocumentField), and
// a regex-over-id lookup. None of these are picked by the core automatically; a deployment
// wires whichever variant it needs when constructing the bridge.
package typeselector

import (
	"regexp"
	"strings"

	"github.com/couchbase/capi-es-bridge/services"
)

// Constant returns a TypeSelector that always answers the same type,
// regardless of index or id.
func Constant(typeName string) services.TypeSelector {
	return func(_, _ string) string {
		return typeName
	}
}

// DocumentField returns a TypeSelector that derives the type from a prefix
// of the document id, split on sep (e.g. a CouchDB-style "type::id" key
// convention would use sep "::"). ids without the separator fall back to
// defaultType, keeping the selector total.
func DocumentField(sep, defaultType string) services.TypeSelector {
	return func(_, id string) string {
		if idx := strings.Index(id, sep); idx >= 0 {
			if prefix := id[:idx]; prefix != "" {
				return prefix
			}
		}
		return defaultType
	}
}

// RegexOverID returns a TypeSelector that evaluates each (pattern, type)
// rule in order against the id and returns the type of the first match.
// ids matched by no rule fall back to defaultType.
func RegexOverID(rules []Rule, defaultType string) (services.TypeSelector, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{re: re, typeName: r.Type})
	}

	return func(_, id string) string {
		for _, r := range compiled {
			if r.re.MatchString(id) {
				return r.typeName
			}
		}
		return defaultType
	}, nil
}

// Rule is one (pattern, type) entry for RegexOverID.
type Rule struct {
	Pattern string
	Type    string
}

type compiledRule struct {
	re       *regexp.Regexp
	typeName string
}
