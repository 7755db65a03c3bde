package template

import (
	"html"
	"slices"
	"strings"
)

// Attrs holds HTML attributes for a template's {{attrs}} placeholder.
// The class attribute is stored as a space-separated list.
type Attrs map[string]string

// Clone returns a copy of the attributes.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Classes returns the class list.
func (a Attrs) Classes() []string {
	return strings.Fields(a["class"])
}

// AddClass appends classes to the class list, dropping empty names and
// duplicates while keeping first-occurrence order. It returns a for chaining.
func (a Attrs) AddClass(classes ...string) Attrs {
	list := a.Classes()
	for _, c := range classes {
		for _, f := range strings.Fields(c) {
			if !slices.Contains(list, f) {
				list = append(list, f)
			}
		}
	}
	if len(list) == 0 {
		delete(a, "class")
		return a
	}
	a["class"] = strings.Join(list, " ")
	return a
}

// HasClass reports whether class is in the class list.
func (a Attrs) HasClass(class string) bool {
	return slices.Contains(a.Classes(), class)
}

// Merge copies other into a. Classes are merged, other keys overwrite.
func (a Attrs) Merge(other Attrs) Attrs {
	for k, v := range other {
		if k == "class" {
			a.AddClass(v)
			continue
		}
		a[k] = v
	}
	return a
}

// FormatAttributes renders attributes as ` key="value"` pairs.
//
// The class attribute comes first, the rest follow in key order. Attributes
// with an empty value are omitted. Keys and values are HTML-escaped. The
// result is empty when there is nothing to render.
func FormatAttributes(a Attrs) string {
	if len(a) == 0 {
		return ""
	}
	keys := make([]string, 0, len(a))
	for k, v := range a {
		if k == "" || v == "" || k == "class" {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	if classes := a.Classes(); len(classes) > 0 {
		writeAttr(&b, "class", strings.Join(dedupe(classes), " "))
	}
	for _, k := range keys {
		writeAttr(&b, k, a[k])
	}
	return b.String()
}

func writeAttr(b *strings.Builder, key, value string) {
	b.WriteByte(' ')
	b.WriteString(html.EscapeString(key))
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}

func dedupe(list []string) []string {
	out := list[:0:0]
	for _, s := range list {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
