package pages

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"formrelay/internal/validation"
)

// fallbackElement receives failure text when a page has no bindings.
const fallbackElement = "_message"

var (
	stripOnce   sync.Once
	stripPolicy *bluemonday.Policy

	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

func stripper() *bluemonday.Policy {
	stripOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}

// Element is the text to write into one page element.
type Element struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Display tells a page which elements to update and which hidden sections to
// show.
type Display struct {
	Elements []Element `json:"elements"`
	Show     []string  `json:"show,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Render applies the page bindings to a validation response.
func (p Page) Render(resp validation.Response) Display {
	d := Display{Elements: make([]Element, 0, len(p.Bindings))}
	for _, b := range p.Bindings {
		v, ok := resp[b.Field]
		d.Elements = append(d.Elements, Element{ID: b.Element, Text: b.Label + fieldText(v, ok)})
	}
	d.Show = append(d.Show, p.Reveal...)
	return d
}

// Failure reports a failed relay. Hidden sections stay hidden.
func (p Page) Failure(err error) Display {
	id := fallbackElement
	if len(p.Bindings) > 0 {
		id = p.Bindings[0].Element
	}
	return Display{
		Elements: []Element{{ID: id, Text: "Validation service unavailable"}},
		Error:    err.Error(),
	}
}

// fieldText renders a decoded JSON value the way string concatenation in the
// browser would, with markup removed and &, < and > escaped.
func fieldText(v any, present bool) string {
	if !present {
		return ""
	}
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return stripMarkup(t)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return stripMarkup(string(data))
	}
}

// stripMarkup drops tags and re-escapes what is left, so entity-encoded
// markup in the remote text never turns back into live tags.
func stripMarkup(s string) string {
	return textEscaper.Replace(html.UnescapeString(stripper().Sanitize(s)))
}
