// Package banner renders text inside a three-line symbol border, suitable for
// pasting as a section comment into source files.
//
//	**********
//	*  test  *
//	**********
package banner

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultSymbol is used when Options.Symbol is unset.
const DefaultSymbol = '*'

// Options controls the banner layout.
type Options struct {
	// MinSymbols is the number of border symbols on each side of the middle line.
	MinSymbols int
	// MinLength is the minimum width of the border lines, excluding Prefix.
	MinLength int
	// Symbol is the border character. It must occupy a single terminal column.
	Symbol rune
	// Prefix is prepended verbatim to every line (e.g. "// " or "-- ").
	Prefix string
	// PadWithSymbol fills the gap between the border and the text with Symbol
	// instead of spaces.
	PadWithSymbol bool
}

// DefaultOptions returns the default layout: one symbol per side, a minimum
// width of 10 and '*' as the border.
func DefaultOptions() Options {
	return Options{
		MinSymbols: 1,
		MinLength:  10,
		Symbol:     DefaultSymbol,
	}
}

// Layout describes the computed geometry of a banner.
type Layout struct {
	// Length is the border width excluding the prefix.
	Length int
	// SideFill is the number of pad characters between the border symbols and
	// the single space around the text, on each side.
	SideFill int
}

// Measure computes the banner geometry for text without rendering it.
func Measure(text string, opts Options) Layout {
	opts = opts.normalized()
	width := runewidth.StringWidth(text)

	// two symbol clusters plus the mandatory space on each side of the text
	minPadding := opts.MinSymbols*2 + 2

	length := max(opts.MinLength, width+minPadding)

	// The fill is split evenly, so the border must share the text's parity.
	if length%2 != width%2 {
		length++
	}

	return Layout{
		Length:   length,
		SideFill: (length - width - minPadding) / 2,
	}
}

// Render returns the three banner lines joined by '\n', without a trailing
// newline.
func Render(text string, opts Options) string {
	opts = opts.normalized()
	layout := Measure(text, opts)

	symbol := string(opts.Symbol)
	pad := " "
	if opts.PadWithSymbol {
		pad = symbol
	}

	border := opts.Prefix + strings.Repeat(symbol, layout.Length)

	var b strings.Builder
	b.WriteString(border)
	b.WriteByte('\n')

	b.WriteString(opts.Prefix)
	b.WriteString(strings.Repeat(symbol, opts.MinSymbols))
	b.WriteString(strings.Repeat(pad, layout.SideFill))
	b.WriteByte(' ')
	b.WriteString(text)
	b.WriteByte(' ')
	b.WriteString(strings.Repeat(pad, layout.SideFill))
	b.WriteString(strings.Repeat(symbol, opts.MinSymbols))
	b.WriteByte('\n')

	b.WriteString(border)
	return b.String()
}

func (o Options) normalized() Options {
	if o.Symbol == 0 {
		o.Symbol = DefaultSymbol
	}
	o.MinSymbols = max(o.MinSymbols, 0)
	o.MinLength = max(o.MinLength, 0)
	return o
}
