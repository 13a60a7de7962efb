// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package filter implements the --where expressions used by the listing
// commands.
//
// Syntax:
//
//	field=value           Equal, case-insensitive; * is a wildcard
//	field!=value          Not equal
//	field~=pattern        Regular expression
//	field=a,b,c           Any of
//	field>n  field>=n     Numeric comparison (also < and <=)
//
// Clauses are joined with AND (the default) or OR and evaluated left to
// right without precedence.
//
// Examples:
//
//	severity=critical
//	level=controller AND status=active
//	health=warning,negative
//	percent>=80 OR resource~=^EUM
package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Joiner combines a clause with the result so far.
type Joiner string

const (
	And Joiner = "AND"
	Or  Joiner = "OR"
)

// Op is a clause comparison.
type Op string

const (
	Equal     Op = "="
	NotEqual  Op = "!="
	Match     Op = "~="
	AnyOf     Op = "in"
	Greater   Op = ">"
	GreaterEq Op = ">="
	Less      Op = "<"
	LessEq    Op = "<="
)

// Two-character operators come first so ">=" is not read as ">".
var ops = []Op{Match, NotEqual, GreaterEq, LessEq, Equal, Greater, Less}

// Clause is one field comparison.
type Clause struct {
	Field  string
	Op     Op
	Value  string
	Values []string // AnyOf
	re     *regexp.Regexp
	num    float64
}

// Expr is a parsed filter. The zero Expr matches everything.
type Expr struct {
	Clauses []Clause
	Joiners []Joiner // len(Joiners) == len(Clauses)-1
}

// Record exposes named fields to an Expr.
type Record interface {
	Field(name string) (string, bool)
}

// Parse parses a filter expression. An empty string yields an Expr that
// matches every record.
func Parse(input string) (*Expr, error) {
	e := &Expr{}
	pendingJoin := false

	for _, tok := range split(input) {
		if j, ok := joiner(tok); ok {
			if len(e.Clauses) == 0 {
				return nil, fmt.Errorf("%s without a preceding clause", j)
			}
			if pendingJoin {
				return nil, fmt.Errorf("%s follows another operator", j)
			}
			e.Joiners = append(e.Joiners, j)
			pendingJoin = true
			continue
		}

		c, err := parseClause(tok)
		if err != nil {
			return nil, err
		}
		if len(e.Clauses) > 0 && !pendingJoin {
			e.Joiners = append(e.Joiners, And)
		}
		e.Clauses = append(e.Clauses, c)
		pendingJoin = false
	}

	if pendingJoin {
		return nil, fmt.Errorf("%s at end of filter", e.Joiners[len(e.Joiners)-1])
	}
	return e, nil
}

func joiner(tok string) (Joiner, bool) {
	switch strings.ToUpper(tok) {
	case "AND":
		return And, true
	case "OR":
		return Or, true
	}
	return "", false
}

// split breaks input into clauses and joiners. A word without an operator
// continues the previous clause, so values may contain spaces.
func split(input string) []string {
	var (
		toks []string
		cur  []string
	)
	flush := func() {
		if len(cur) > 0 {
			toks = append(toks, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}
	for _, w := range strings.Fields(input) {
		if _, ok := joiner(w); ok {
			flush()
			toks = append(toks, w)
			continue
		}
		if opIndex(w) > 0 {
			flush()
		}
		cur = append(cur, w)
	}
	flush()
	return toks
}

// opIndex returns the position of the first operator in s, or -1.
func opIndex(s string) int {
	i, _ := findOp(s)
	return i
}

func findOp(s string) (int, Op) {
	for i := range len(s) {
		for _, o := range ops {
			if strings.HasPrefix(s[i:], string(o)) {
				return i, o
			}
		}
	}
	return -1, ""
}

func parseClause(s string) (Clause, error) {
	idx, op := findOp(s)
	if idx <= 0 {
		return Clause{}, fmt.Errorf("invalid clause %q: expected field=value", s)
	}

	c := Clause{
		Field: strings.ToLower(strings.TrimSpace(s[:idx])),
		Op:    op,
		Value: strings.TrimSpace(s[idx+len(op):]),
	}

	switch op {
	case Match:
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return Clause{}, fmt.Errorf("invalid pattern %q: %w", c.Value, err)
		}
		c.re = re
	case Greater, GreaterEq, Less, LessEq:
		n, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return Clause{}, fmt.Errorf("%s needs a number, got %q", op, c.Value)
		}
		c.num = n
	case Equal:
		if strings.Contains(c.Value, ",") {
			c.Op = AnyOf
			for _, v := range strings.Split(c.Value, ",") {
				c.Values = append(c.Values, strings.TrimSpace(v))
			}
		}
	}
	return c, nil
}

// Matches evaluates e against r.
func (e *Expr) Matches(r Record) bool {
	if e == nil || len(e.Clauses) == 0 {
		return true
	}
	ok := e.Clauses[0].matches(r)
	for i, j := range e.Joiners {
		next := e.Clauses[i+1].matches(r)
		if j == Or {
			ok = ok || next
		} else {
			ok = ok && next
		}
	}
	return ok
}

func (c Clause) matches(r Record) bool {
	v, found := r.Field(c.Field)
	if c.Op == NotEqual {
		return !found || !equal(v, c.Value)
	}
	if !found {
		return false
	}

	switch c.Op {
	case Equal:
		return equal(v, c.Value)
	case AnyOf:
		for _, want := range c.Values {
			if equal(v, want) {
				return true
			}
		}
		return false
	case Match:
		return c.re.MatchString(v)
	}

	n, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
	if err != nil {
		return false
	}
	switch c.Op {
	case Greater:
		return n > c.num
	case GreaterEq:
		return n >= c.num
	case Less:
		return n < c.num
	case LessEq:
		return n <= c.num
	}
	return false
}

func equal(v, want string) bool {
	if !strings.Contains(want, "*") {
		return strings.EqualFold(v, want)
	}
	pattern := "(?i)^" + strings.ReplaceAll(regexp.QuoteMeta(want), `\*`, ".*") + "$"
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(v)
}

// String renders e in canonical form.
func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	var parts []string
	for i, c := range e.Clauses {
		if i > 0 {
			parts = append(parts, string(e.Joiners[i-1]))
		}
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}

func (c Clause) String() string {
	if c.Op == AnyOf {
		return c.Field + "=" + strings.Join(c.Values, ",")
	}
	return c.Field + string(c.Op) + c.Value
}

// Fields is a Record backed by a map. Keys are matched case-insensitively by
// storing them lower-cased.
type Fields map[string]string

func (f Fields) Field(name string) (string, bool) {
	v, ok := f[strings.ToLower(name)]
	return v, ok
}
