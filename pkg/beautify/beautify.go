// Package beautify pretty-prints rendered menu markup.
//
// # Directives
//
// The indentation style is given as a compact tidy directive of the form
// <count><s|t><level><n|r|rn>:
//
//	1t0n   one tab per level, start at level 0, "\n" line breaks (the default)
//	2s0n   two spaces per level
//	4s1rn  four spaces, start one level deep, "\r\n" line breaks
//
// The shorthands "1", "true" and "yes" select the default directive; "-1",
// "0", "false" and "" select compact output.
//
// # Usage
//
//	out, err := beautify.Default.Beautify(html, "2s0n")
package beautify

import (
	"strconv"
	"strings"

	"github.com/matzehuels/treemenu/pkg/errors"
)

// DefaultDirective is used when beautification is enabled without an
// explicit directive.
const DefaultDirective = "1t0n"

// Upper bounds for the indent width and starting level of a directive.
const (
	MaxIndent = 16
	MaxLevel  = 64
)

// Beautifier pretty-prints an HTML fragment.
type Beautifier interface {
	Beautify(html, directive string) (string, error)
}

// Func adapts a function to the [Beautifier] interface.
type Func func(html, directive string) (string, error)

// Beautify implements [Beautifier].
func (f Func) Beautify(html, directive string) (string, error) {
	return f(html, directive)
}

// Style is a parsed tidy directive.
type Style struct {
	Indent  string // indentation unit for one level
	Level   int    // starting level
	Newline string // line break sequence
	Compact bool   // strip formatting whitespace instead of indenting
}

// ParseDirective parses a tidy directive into a Style.
func ParseDirective(directive string) (Style, error) {
	d := strings.ToLower(strings.TrimSpace(directive))
	switch d {
	case "", "0", "-1", "false", "no", "off":
		return Style{Compact: true}, nil
	case "1", "true", "yes", "on":
		d = DefaultDirective
	}

	i := 0
	for i < len(d) && d[i] >= '0' && d[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(d) {
		return Style{}, errors.New(errors.ErrCodeInvalidOption, "invalid beautify directive %q", directive)
	}
	count, err := strconv.Atoi(d[:i])
	if err != nil || count > MaxIndent {
		return Style{}, errors.New(errors.ErrCodeInvalidOption, "indent width in directive %q exceeds %d", directive, MaxIndent)
	}

	var unit string
	switch d[i] {
	case 's':
		unit = " "
	case 't':
		unit = "\t"
	default:
		return Style{}, errors.New(errors.ErrCodeInvalidOption, "invalid indent character %q in directive %q", d[i], directive)
	}
	d = d[i+1:]

	j := 0
	for j < len(d) && d[j] >= '0' && d[j] <= '9' {
		j++
	}
	level := 0
	if j > 0 {
		level, err = strconv.Atoi(d[:j])
		if err != nil || level > MaxLevel {
			return Style{}, errors.New(errors.ErrCodeInvalidOption, "start level in directive %q exceeds %d", directive, MaxLevel)
		}
	}
	d = d[j:]

	var nl string
	switch d {
	case "", "n":
		nl = "\n"
	case "r":
		nl = "\r"
	case "rn":
		nl = "\r\n"
	default:
		return Style{}, errors.New(errors.ErrCodeInvalidOption, "invalid line break %q in directive %q", d, directive)
	}

	return Style{
		Indent:  strings.Repeat(unit, count),
		Level:   level,
		Newline: nl,
	}, nil
}
