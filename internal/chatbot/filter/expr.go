// Package filter defines the catalog predicate expression tree and the
// facet-to-predicate compiler. Predicates are built fresh per request and
// interpreted by the catalog store; this package performs no I/O.
package filter

import (
	"fmt"
	"sort"
	"strings"
)

// Field names a product attribute a predicate can test.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldSubcategory Field = "subcategory"
	FieldGender      Field = "gender"
	FieldColor       Field = "color"
	FieldSize        Field = "size"
	FieldPrice       Field = "price"
)

// Expr is a boolean predicate over catalog fields. Implementations are the
// closed set And, Or, Not, Contains, Equals and Between.
type Expr interface {
	// String renders a canonical form, stable across identical trees, used
	// for cache keys and test assertions.
	String() string
	isExpr()
}

// And is the conjunction of its children.
type And struct {
	Exprs []Expr
}

// Or is the disjunction of its children.
type Or struct {
	Exprs []Expr
}

// Not negates its child.
type Not struct {
	Expr Expr
}

// Contains is a case-insensitive substring test on a text field.
type Contains struct {
	Field Field
	Value string
}

// Equals is a case-insensitive exact match on a field.
type Equals struct {
	Field Field
	Value string
}

// Between is an inclusive numeric range test. Used by the listing API's price
// filter; the chatbot compiler never emits it.
type Between struct {
	Field Field
	Min   float64
	Max   float64
}

func (And) isExpr()      {}
func (Or) isExpr()       {}
func (Not) isExpr()      {}
func (Contains) isExpr() {}
func (Equals) isExpr()   {}
func (Between) isExpr()  {}

func (e And) String() string {
	return renderGroup("and", e.Exprs)
}

func (e Or) String() string {
	return renderGroup("or", e.Exprs)
}

func (e Not) String() string {
	return fmt.Sprintf("not(%s)", e.Expr)
}

func (e Contains) String() string {
	return fmt.Sprintf("contains(%s,%q)", e.Field, strings.ToLower(e.Value))
}

func (e Equals) String() string {
	return fmt.Sprintf("eq(%s,%q)", e.Field, strings.ToLower(e.Value))
}

func (e Between) String() string {
	return fmt.Sprintf("between(%s,%g,%g)", e.Field, e.Min, e.Max)
}

func renderGroup(op string, exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return op + "(" + strings.Join(parts, ",") + ")"
}

// ContainsAnyField builds an OR of Contains tests for value over fields.
func ContainsAnyField(value string, fields ...Field) Expr {
	exprs := make([]Expr, len(fields))
	for i, f := range fields {
		exprs[i] = Contains{Field: f, Value: value}
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return Or{Exprs: exprs}
}

// Fields returns the sorted set of fields referenced anywhere in the tree.
func Fields(e Expr) []Field {
	set := map[Field]bool{}
	collectFields(e, set)
	out := make([]Field, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func collectFields(e Expr, set map[Field]bool) {
	switch v := e.(type) {
	case And:
		for _, c := range v.Exprs {
			collectFields(c, set)
		}
	case Or:
		for _, c := range v.Exprs {
			collectFields(c, set)
		}
	case Not:
		collectFields(v.Expr, set)
	case Contains:
		set[v.Field] = true
	case Equals:
		set[v.Field] = true
	case Between:
		set[v.Field] = true
	}
}
