// Package dbref parses the Source-supplied database name grammar:
// <index>[/<vbucket-or-suffix>][;<uuid>].
package dbref

import "strings"

// Ref is a parsed database reference. Index is the Index's index name.
// UUID is the bucket UUID the Source expects this target to currently own
// (empty means "do not verify"). The routing suffix after the first "/" is
// intentionally discarded — it is a Source-side hint the bridge never acts
// on.
type Ref struct {
	Index string
	UUID  string
}

// Parse splits a database name into its index name and optional UUID.
// Splitting is single-pass: everything from the first "/" up to (but not
// including) a trailing ";uuid" is routing and is dropped; everything after
// the first ";" is the UUID.
func Parse(db string) Ref {
	name := db
	uuid := ""

	if semi := strings.IndexByte(name, ';'); semi >= 0 {
		uuid = name[semi+1:]
		name = name[:semi]
	}

	if slash := strings.IndexByte(name, '/'); slash >= 0 {
		name = name[:slash]
	}

	return Ref{Index: name, UUID: uuid}
}

// String reconstructs the "<index>;<uuid>" form (without the routing
// suffix, which Parse already discarded), or just "<index>" when UUID is
// empty.
func (r Ref) String() string {
	if r.UUID == "" {
		return r.Index
	}
	return r.Index + ";" + r.UUID
}
