// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package vault

import (
	"regexp"
	"strings"
)

// Query filters records by location, username and password. Each non-empty
// term matches a field that contains its characters in order, ignoring case.
type Query struct {
	Location string
	Username string
	Password string
}

// IsEmpty reports whether the query has no terms
func (q Query) IsEmpty() bool {
	return q.Location == "" && q.Username == "" && q.Password == ""
}

type matcher struct {
	location *regexp.Regexp
	username *regexp.Regexp
	password *regexp.Regexp
}

func (q Query) compile() matcher {
	return matcher{
		location: subsequencePattern(q.Location),
		username: subsequencePattern(q.Username),
		password: subsequencePattern(q.Password),
	}
}

// subsequencePattern turns "gml" into (?i)g.*m.*l; nil for an empty term
func subsequencePattern(term string) *regexp.Regexp {
	if term == "" {
		return nil
	}
	parts := make([]string, 0, len(term))
	for _, r := range term {
		parts = append(parts, regexp.QuoteMeta(string(r)))
	}
	return regexp.MustCompile("(?is)" + strings.Join(parts, ".*"))
}

func (m matcher) match(r *Record) bool {
	return matchField(m.location, r.location) &&
		matchField(m.username, r.username) &&
		matchField(m.password, r.password)
}

func matchField(re *regexp.Regexp, value string) bool {
	return re == nil || re.MatchString(value)
}

// Search returns copies of the records matching q, ordered by ID. An empty
// query matches every record.
func (v *Vault) Search(q Query) []*Record {
	m := q.compile()

	v.mu.RLock()
	defer v.mu.RUnlock()

	var out []*Record
	for _, r := range v.records {
		if m.match(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}
