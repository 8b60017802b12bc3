// Package sqlfmt reformats SQL statements in an aligned style: keywords are
// normalised to one case, redundant whitespace is dropped, operators get a
// space on each side and clause keywords are right-aligned to the end of
// SELECT.
//
//	select a,
//	       b
//	  from t
//	 where a = 0
//	   and b <> 4
//	 limit 10;
//
// The formatter works on lexer tokens, not a parse tree, so it accepts any
// dialect the lexer can tokenize and never rejects input. Use Check to
// validate syntax.
package sqlfmt

import (
	"fmt"
	"strings"

	"github.com/DataDog/go-sqllexer"
)

// KeywordCase selects how keywords are written.
type KeywordCase string

const (
	CaseLower    KeywordCase = "lower"
	CaseUpper    KeywordCase = "upper"
	CasePreserve KeywordCase = "preserve"
)

// ParseKeywordCase validates a keyword case name.
func ParseKeywordCase(s string) (KeywordCase, error) {
	switch c := KeywordCase(strings.ToLower(s)); c {
	case CaseLower, CaseUpper, CasePreserve:
		return c, nil
	case "":
		return CaseLower, nil
	}
	return "", fmt.Errorf("unknown keyword case %q (valid: lower, upper, preserve)", s)
}

// Options controls formatting.
type Options struct {
	KeywordCase KeywordCase
}

// DefaultOptions returns lower-case keywords.
func DefaultOptions() Options {
	return Options{KeywordCase: CaseLower}
}

// width of "select", the column clause keywords are right-aligned to
const alignWidth = 6

// nesting adds this many columns per subquery level
const nestWidth = alignWidth + 2

// Format reformats every statement in sql. Statements are separated by a
// blank line. The result has no trailing newline.
func Format(sql string, opts Options) string {
	stmts := Split(sql)
	out := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, formatStatement(stmt, opts))
	}
	return strings.Join(out, "\n\n")
}

type scope struct {
	query bool
	// subquery nesting level
	level int
	// current clause keyword, e.g. "SELECT", "WHERE", "GROUP BY"
	clause string
	written bool
	// an AND belonging to BETWEEN is pending
	between bool
	// a join modifier (LEFT, INNER, ...) started the current line
	join bool
}

type formatter struct {
	b       strings.Builder
	opts    Options
	toks    []token
	stack   []*scope
	prev    *token
	bol     bool
	pending bool
}

func formatStatement(stmt string, opts Options) string {
	f := &formatter{
		opts:  opts,
		toks:  significant(scan(stmt)),
		stack: []*scope{{query: true}},
		bol:   true,
	}
	for i := range f.toks {
		f.token(i)
	}
	return strings.TrimRight(f.b.String(), " \n")
}

func (f *formatter) top() *scope { return f.stack[len(f.stack)-1] }

func (f *formatter) token(i int) {
	t := f.toks[i]
	sc := f.top()

	switch {
	case t.punct("("):
		f.emit(t)
		if f.nextIs(i, "SELECT") {
			f.stack = append(f.stack, &scope{query: true, level: sc.level + 1})
			f.newline(f.top().level * nestWidth)
		} else {
			f.stack = append(f.stack, &scope{level: sc.level})
		}
		return

	case t.punct(")"):
		if len(f.stack) > 1 {
			closed := sc
			f.stack = f.stack[:len(f.stack)-1]
			if closed.query {
				f.newline(alignWidth + 1 + f.top().level*nestWidth)
			}
		}
		f.emit(t)
		return

	case t.punct(","):
		f.emit(t)
		if sc.query && sc.clause == "SELECT" {
			f.newline(f.continuation())
		}
		return

	case t.typ == sqllexer.COMMENT:
		f.emit(t)
		f.pending = true
		return
	}

	if sc.query && t.keyword() {
		if t.upper == "SELECT" {
			if sc.written {
				f.newline(sc.level * nestWidth)
			}
			sc.clause = "SELECT"
			f.emit(t)
			return
		}
		if word, clause, ok := f.clauseStart(i); ok {
			f.newline(max(alignWidth-len(word), 0) + sc.level*nestWidth)
			if clause != "" {
				sc.clause = clause
			}
		}
	}
	f.emit(t)
}

// clauseStart reports whether token i begins a new aligned line. word is the
// keyword the line aligns on and clause the clause it opens, empty for AND
// and OR which continue the current clause.
func (f *formatter) clauseStart(i int) (word, clause string, ok bool) {
	t := f.toks[i]
	sc := f.top()

	switch t.upper {
	case "FROM", "WHERE", "HAVING", "LIMIT", "UNION", "VALUES", "SET", "EXCEPT", "INTERSECT", "ON":
		if t.upper == "SET" && sc.clause != "UPDATE" && sc.clause != "" {
			return "", "", false
		}
		return t.upper, t.upper, true

	case "AND", "OR":
		if sc.between && t.upper == "AND" {
			sc.between = false
			return "", "", false
		}
		switch sc.clause {
		case "WHERE", "HAVING", "ON":
			return t.upper, "", true
		}
		return "", "", false

	case "BETWEEN":
		sc.between = true
		return "", "", false

	case "GROUP", "ORDER":
		if f.nextIs(i, "BY") {
			return t.upper, t.upper + " BY", true
		}
		return "", "", false

	case "JOIN", "STRAIGHT_JOIN":
		if sc.join {
			sc.join = false
			return "", "", false
		}
		return t.upper, "JOIN", true

	case "LEFT", "RIGHT", "FULL", "INNER", "OUTER", "CROSS", "NATURAL":
		if sc.join {
			return "", "", false
		}
		if f.joinFollows(i) {
			sc.join = true
			return t.upper, "JOIN", true
		}
		return "", "", false

	case "UPDATE", "DELETE", "INSERT":
		if !sc.written {
			sc.clause = t.upper
		}
		return "", "", false
	}
	return "", "", false
}

// joinFollows reports whether the join modifiers starting at token i end in
// JOIN.
func (f *formatter) joinFollows(i int) bool {
	for j := i + 1; j < len(f.toks); j++ {
		switch f.toks[j].upper {
		case "JOIN":
			return true
		case "LEFT", "RIGHT", "FULL", "INNER", "OUTER", "CROSS", "NATURAL":
			continue
		}
		return false
	}
	return false
}

// nextIs reports whether the token after i, skipping comments, is the
// keyword upper.
func (f *formatter) nextIs(i int, upper string) bool {
	for j := i + 1; j < len(f.toks); j++ {
		t := f.toks[j]
		if t.typ == sqllexer.COMMENT || t.typ == sqllexer.MULTILINE_COMMENT {
			continue
		}
		return t.keyword() && t.upper == upper
	}
	return false
}

// continuation is the indent for a line that continues the current clause.
func (f *formatter) continuation() int {
	sc := f.top()
	if sc.clause == "" {
		return sc.level * nestWidth
	}
	return alignWidth + 1 + sc.level*nestWidth
}

func (f *formatter) newline(indent int) {
	if f.b.Len() > 0 {
		f.b.WriteByte('\n')
		f.b.WriteString(strings.Repeat(" ", indent))
	}
	f.bol = true
	f.pending = false
}

func (f *formatter) emit(t token) {
	if f.pending {
		f.newline(f.continuation())
	}
	if !f.bol && f.prev != nil && spaced(*f.prev, t) {
		f.b.WriteByte(' ')
	}
	f.b.WriteString(f.render(t))
	f.prev = &t
	f.bol = false
	f.top().written = true
}

func (f *formatter) render(t token) string {
	if !t.keyword() {
		return t.value
	}
	switch f.opts.KeywordCase {
	case CaseUpper:
		return t.upper
	case CasePreserve:
		return t.value
	}
	return strings.ToLower(t.value)
}

// spaced reports whether a space separates prev and cur.
func spaced(prev, cur token) bool {
	switch {
	case cur.punct(","), cur.punct(";"), cur.punct(")"), cur.punct("]"), cur.punct("."):
		return false
	case prev.punct("("), prev.punct("["), prev.punct("."):
		return false
	case cur.punct("(") && prev.typ == sqllexer.FUNCTION:
		return false
	case prev.typ == sqllexer.IDENT && strings.HasSuffix(prev.value, "."):
		// qualified wildcard such as t.*
		return false
	case cur.value == "::" || prev.value == "::":
		return false
	}
	return true
}
