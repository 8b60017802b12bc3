package sqlfmt

import (
	"strings"

	"github.com/DataDog/go-sqllexer"
)

type token struct {
	typ   sqllexer.TokenType
	value string
	upper string
}

func (t token) is(typ sqllexer.TokenType, value string) bool {
	return t.typ == typ && t.value == value
}

func (t token) punct(value string) bool {
	return t.is(sqllexer.PUNCTUATION, value)
}

// keyword reports whether the token is an SQL keyword for casing and clause
// detection.
func (t token) keyword() bool {
	switch t.typ {
	case sqllexer.COMMAND, sqllexer.KEYWORD, sqllexer.BOOLEAN, sqllexer.NULL,
		sqllexer.PROC_INDICATOR, sqllexer.CTE_INDICATOR, sqllexer.ALIAS_INDICATOR:
		return true
	case sqllexer.IDENT:
		return extraKeywords[t.upper]
	}
	return false
}

// extraKeywords are words the lexer reports as identifiers but which read as
// keywords in formatted output.
var extraKeywords = map[string]bool{
	"CROSS":     true,
	"EXCEPT":    true,
	"FETCH":     true,
	"FIRST":     true,
	"FULL":      true,
	"INTERSECT": true,
	"LAST":      true,
	"LATERAL":   true,
	"NATURAL":   true,
	"NEXT":      true,
	"NULLS":     true,
	"OVER":      true,
	"PARTITION": true,
	"ROWS":      true,
	"THEN":      true,
	"WHEN":      true,
}

// scan tokenizes sql, keeping whitespace tokens so callers can reproduce the
// source text.
func scan(sql string) []token {
	lexer := sqllexer.New(sql)
	var toks []token
	for {
		tok := lexer.Scan()
		if tok.Type == sqllexer.EOF || tok.Value == "" {
			return toks
		}
		toks = append(toks, token{
			typ:   tok.Type,
			value: tok.Value,
			upper: strings.ToUpper(tok.Value),
		})
	}
}

// significant drops whitespace and separates a trailing sign the lexer glued
// onto a comparison operator, as in "a=-1".
func significant(toks []token) []token {
	out := make([]token, 0, len(toks))
	for i, t := range toks {
		if t.typ == sqllexer.SPACE {
			continue
		}
		if t.typ == sqllexer.OPERATOR && len(t.value) > 1 && i+1 < len(toks) && toks[i+1].typ == sqllexer.NUMBER {
			last := t.value[len(t.value)-1]
			head := t.value[:len(t.value)-1]
			if (last == '-' || last == '+') && comparisons[head] {
				out = append(out, token{typ: sqllexer.OPERATOR, value: head, upper: head})
				toks[i+1].value = string(last) + toks[i+1].value
				toks[i+1].upper = toks[i+1].value
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

var comparisons = map[string]bool{
	"=": true, "<>": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

// Split returns the statements in sql, each keeping its terminating
// semicolon. Semicolons inside strings, comments and parentheses do not
// split.
func Split(sql string) []string {
	var (
		stmts []string
		cur   strings.Builder
		depth int
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" && s != ";" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}

	for _, t := range scan(sql) {
		cur.WriteString(t.value)
		switch {
		case t.punct("("):
			depth++
		case t.punct(")"):
			depth = max(depth-1, 0)
		case t.punct(";") && depth == 0:
			flush()
		}
	}
	flush()
	return stmts
}
