package formjson

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ReadHTML parses an HTML document and returns the entries its form would
// submit, in document order. formID selects the form by id; an empty formID
// selects the first form in the document.
//
// Controls are those owned by the form, either as descendants or through a
// form attribute naming it. Disabled controls, unchecked checkboxes and radios,
// and button, file and image inputs are not submitted.
func ReadHTML(r io.Reader, formID string) ([]FieldEntry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("formjson: parse html: %w", err)
	}

	form := findForm(doc, formID)
	if form == nil {
		if formID == "" {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("%w: %q", ErrFormNotFound, formID)
	}
	id := attr(form, "id")

	var entries []FieldEntry
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isControl(n) && ownedBy(n, form, id) {
			entries = append(entries, controlEntries(n)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return entries, nil
}

func findForm(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Form {
		if id == "" || attr(n, "id") == id {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findForm(c, id); f != nil {
			return f
		}
	}
	return nil
}

func isControl(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Input, atom.Select, atom.Textarea:
		return true
	}
	return false
}

// ownedBy reports whether control n belongs to form. An explicit form
// attribute wins over ancestry.
func ownedBy(n, form *html.Node, id string) bool {
	if owner, ok := attrOK(n, "form"); ok {
		return id != "" && owner == id
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p == form {
			return true
		}
	}
	return false
}

func controlEntries(n *html.Node) []FieldEntry {
	name := attr(n, "name")
	if name == "" || disabled(n) {
		return nil
	}

	switch n.DataAtom {
	case atom.Textarea:
		return []FieldEntry{{Name: name, Value: normalizeNewlines(text(n))}}
	case atom.Select:
		var out []FieldEntry
		for _, v := range selectValues(n) {
			out = append(out, FieldEntry{Name: name, Value: normalizeNewlines(v)})
		}
		return out
	}

	switch strings.ToLower(attr(n, "type")) {
	case "submit", "button", "image", "reset", "file":
		return nil
	case "checkbox", "radio":
		if _, checked := attrOK(n, "checked"); !checked {
			return nil
		}
		value, ok := attrOK(n, "value")
		if !ok {
			value = "on"
		}
		return []FieldEntry{{Name: name, Value: normalizeNewlines(value)}}
	default:
		return []FieldEntry{{Name: name, Value: normalizeNewlines(attr(n, "value"))}}
	}
}

// disabled reports whether n is disabled itself or sits inside a disabled
// fieldset.
func disabled(n *html.Node) bool {
	if hasAttr(n, "disabled") {
		return true
	}
	child := n
	for p := n.Parent; p != nil; child, p = p, p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Fieldset && hasAttr(p, "disabled") {
			if child != firstLegend(p) {
				return true
			}
		}
	}
	return false
}

// firstLegend returns the first legend element child of a fieldset. Controls
// inside it stay enabled when the fieldset is disabled.
func firstLegend(fieldset *html.Node) *html.Node {
	for c := fieldset.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Legend {
			return c
		}
	}
	return nil
}

func selectValues(sel *html.Node) []string {
	multiple := hasAttr(sel, "multiple")

	var (
		selected   []string
		firstValid string
		haveFirst  bool
	)
	var walk func(n *html.Node, groupDisabled bool)
	walk = func(n *html.Node, groupDisabled bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Optgroup:
				walk(c, groupDisabled || hasAttr(c, "disabled"))
			case atom.Option:
				if groupDisabled || hasAttr(c, "disabled") {
					continue
				}
				v := optionValue(c)
				if !haveFirst {
					firstValid, haveFirst = v, true
				}
				if hasAttr(c, "selected") {
					selected = append(selected, v)
				}
			}
		}
	}
	walk(sel, false)

	if multiple {
		return selected
	}
	switch {
	case len(selected) > 0:
		// A single select shows the last option marked selected.
		return selected[len(selected)-1:]
	case haveFirst:
		return []string{firstValid}
	}
	return nil
}

func optionValue(opt *html.Node) string {
	if v, ok := attrOK(opt, "value"); ok {
		return v
	}
	return strings.Join(strings.Fields(text(opt)), " ")
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attrOK(n, key)
	return ok
}
