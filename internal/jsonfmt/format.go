// Package jsonfmt pretty-prints JSON documents.
//
// Object keys keep their input order unless sorting is requested, in which
// case every object in the document (including objects nested in arrays) is
// sorted by key. A key repeated within one object is kept once, at its first
// position, with its last value. Number literals are copied verbatim, so
// formatting never changes precision.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

var (
	// ErrInvalidJSON is wrapped by every parse failure.
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrNotFormatted is returned by Check when a file differs from its
	// formatted form.
	ErrNotFormatted = errors.New("not formatted")
)

// Options controls the output layout.
type Options struct {
	// Indent is the number of spaces per nesting level.
	Indent int
	// Sort orders object keys alphabetically.
	Sort bool
}

// DefaultOptions returns two-space indentation without sorting.
func DefaultOptions() Options {
	return Options{Indent: DefaultIndent}
}

// SyntaxError reports where a document stopped being valid JSON.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidJSON, e.Msg)
	}
	return fmt.Sprintf("%s at line %d, column %d: %s", ErrInvalidJSON, e.Line, e.Column, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrInvalidJSON }

// Format validates data and returns it pretty-printed, one element per line,
// without a trailing newline.
func Format(data []byte, opts Options) ([]byte, error) {
	if !utf8.Valid(data) {
		return nil, invalidUTF8(data)
	}
	if !gjson.ValidBytes(data) {
		return nil, describe(data)
	}

	out := pretty.PrettyOptions(mergeDuplicateKeys(data), &pretty.Options{
		// zero width keeps every array element on its own line
		Width:    0,
		Indent:   strings.Repeat(" ", max(opts.Indent, 0)),
		SortKeys: opts.Sort,
	})
	return bytes.TrimRight(out, "\n"), nil
}

// mergeDuplicateKeys re-encodes data compactly with every object key
// appearing once. Raw scalars are copied untouched.
func mergeDuplicateKeys(data []byte) []byte {
	return appendValue(make([]byte, 0, len(data)), gjson.ParseBytes(data))
}

func appendValue(buf []byte, v gjson.Result) []byte {
	switch {
	case v.IsObject():
		var keys []gjson.Result
		values := make(map[string]gjson.Result)
		v.ForEach(func(key, value gjson.Result) bool {
			if _, ok := values[key.Str]; !ok {
				keys = append(keys, key)
			}
			values[key.Str] = value
			return true
		})

		buf = append(buf, '{')
		for i, key := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, key.Raw...)
			buf = append(buf, ':')
			buf = appendValue(buf, values[key.Str])
		}
		return append(buf, '}')

	case v.IsArray():
		buf = append(buf, '[')
		first := true
		v.ForEach(func(_, value gjson.Result) bool {
			if !first {
				buf = append(buf, ',')
			}
			first = false
			buf = appendValue(buf, value)
			return true
		})
		return append(buf, ']')

	default:
		return append(buf, v.Raw...)
	}
}

// invalidUTF8 reports the position of the first byte that is not part of a
// valid UTF-8 sequence.
func invalidUTF8(data []byte) error {
	offset := 0
	for offset < len(data) {
		r, size := utf8.DecodeRune(data[offset:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		offset += size
	}
	line, col := position(data, int64(offset)+1)
	return &SyntaxError{Line: line, Column: col, Msg: "invalid UTF-8"}
}

// describe locates the first syntax error in data. It only runs on input
// already known to be invalid.
func describe(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return &SyntaxError{Msg: "empty document"}
	}

	var raw json.RawMessage
	err := json.Unmarshal(data, &raw)

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := position(data, syntaxErr.Offset)
		return &SyntaxError{Line: line, Column: col, Msg: syntaxErr.Error()}
	}
	if err != nil {
		return &SyntaxError{Msg: err.Error()}
	}
	return &SyntaxError{Msg: "malformed document"}
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	col := int(offset) - bytes.LastIndexByte(before, '\n')
	// the decoder reports the offset just past the offending byte
	if col > 1 {
		col--
	}
	return line, col
}
