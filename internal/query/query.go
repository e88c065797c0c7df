// Package query compiles free-text user queries into FTS5 MATCH syntax.
//
// The wildcarding rule lives in one place here and is shared by search and
// facet counting: tokens longer than two characters become prefix terms,
// shorter tokens stay literal because wildcarding them matches far too much.
package query

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Expr is a query expression renderable to FTS5 MATCH syntax.
type Expr interface {
	Render() string
}

// Term matches a token literally.
type Term string

// Render implements Expr.
func (t Term) Render() string { return string(t) }

// Prefix matches any word beginning with the token.
type Prefix string

// Render implements Expr.
func (p Prefix) Render() string { return string(p) + "*" }

// And is the conjunction of its operands.
type And []Expr

// Render implements Expr.
func (a And) Render() string { return join(a, " AND ") }

// Or is the disjunction of its operands.
type Or []Expr

// Render implements Expr.
func (o Or) Render() string { return join(o, " OR ") }

func join(exprs []Expr, sep string) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.Render())
	}
	return strings.Join(parts, sep)
}

// Auto applies the wildcarding rule to a single token.
func Auto(token string) Expr {
	if utf8.RuneCountInString(token) <= 2 {
		return Term(token)
	}
	return Prefix(token)
}

// booleanOps detects explicit boolean operators as whole words,
// case-insensitively.
var booleanOps = regexp.MustCompile(`(?i)\b(OR|AND|NOT)\b`)

// Compile turns a raw user query into FTS5 MATCH syntax.
//
// A query containing boolean operators or double quotes passes through
// unmodified: the user has taken control of the syntax. Otherwise tokens
// are wildcarded with Auto and joined with an implicit AND.
// Empty input compiles to the empty string; callers must short-circuit
// before querying.
func Compile(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	if booleanOps.MatchString(s) {
		return s
	}
	if strings.Contains(s, `"`) {
		return s
	}

	var conj And
	for _, tok := range strings.Fields(s) {
		conj = append(conj, Auto(tok))
	}
	if len(conj) == 0 {
		return s
	}
	return conj.Render()
}
