// Package dbtable holds qualified table identifiers shared by discovery,
// comparison and the copier.
package dbtable

import "strings"

// DefaultSchema is the schema assumed when a table name carries no
// schema qualifier.
const DefaultSchema = "public"

// Name identifies a table by schema and table name.
type Name struct {
	Schema string
	Table  string
}

// MakeName builds a Name, defaulting the schema to "public" when empty.
func MakeName(schema string, table string) Name {
	if schema == "" {
		schema = DefaultSchema
	}
	return Name{Schema: schema, Table: table}
}

// ParseName parses a qualified name as rendered by Qualified, i.e. the
// "public." prefix may be elided.
func ParseName(s string) Name {
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		return Name{Schema: s[:idx], Table: s[idx+1:]}
	}
	return Name{Schema: DefaultSchema, Table: s}
}

// Qualified returns the schema-qualified name, omitting the schema
// prefix for tables in the public schema.
func (n Name) Qualified() string {
	if n.Schema == DefaultSchema || n.Schema == "" {
		return n.Table
	}
	return n.Schema + "." + n.Table
}

func (n Name) String() string {
	return n.Qualified()
}

// Compare orders names by their qualified string form.
func (n Name) Compare(o Name) int {
	return strings.Compare(n.Qualified(), o.Qualified())
}

func (n Name) Less(o Name) bool {
	return n.Compare(o) < 0
}
