// Package template implements the small string-template primitive used to
// compose menu markup.
//
// Templates are plain strings with {{name}} placeholders:
//
//	<li{{attrs}}>{{content}}{{children}}</li>
//
// [Set.Format] substitutes the named values; placeholders without a value
// render as the empty string. [FormatAttributes] turns an [Attrs] map into
// the ` key="value"` sequence expected by an {{attrs}} placeholder, with the
// class attribute first and all values HTML-escaped.
package template
