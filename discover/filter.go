package discover

import (
	"regexp"

	"github.com/cockroachdb/errors"
)

// DefaultExcludePatterns skips Postgres system tables and the tables
// Supabase manages itself (storage, realtime, auth, extensions).
func DefaultExcludePatterns() []string {
	return []string{
		"^pg_",
		"^sql_",
		"^_",
		"^storage",
		"^realtime",
		"^supabase",
		"^auth",
		"^extensions",
	}
}

type FilterConfig struct {
	// IncludeSchemas restricts the catalog query. Must be non-empty.
	IncludeSchemas []string
	// ExcludePatterns are POSIX regexps searched (unanchored) against
	// each qualified table name; a match excludes the table.
	ExcludePatterns []string
}

func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		IncludeSchemas:  []string{"public"},
		ExcludePatterns: DefaultExcludePatterns(),
	}
}

type filter struct {
	res []*regexp.Regexp
}

func (c FilterConfig) compile() (filter, error) {
	f := filter{res: make([]*regexp.Regexp, 0, len(c.ExcludePatterns))}
	for _, p := range c.ExcludePatterns {
		re, err := regexp.CompilePOSIX(p)
		if err != nil {
			return filter{}, errors.Wrapf(err, "invalid exclude pattern %q", p)
		}
		f.res = append(f.res, re)
	}
	return f, nil
}

func (f filter) excluded(qualified string) bool {
	for _, re := range f.res {
		if re.MatchString(qualified) {
			return true
		}
	}
	return false
}
