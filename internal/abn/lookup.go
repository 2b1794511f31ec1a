// Package abn validates applicant details against the Australian Business
// Register lookup service and a rules engine.
package abn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"formrelay/internal/validation"
)

// DefaultLookupURL is the Australian Business Register JSON endpoint.
const DefaultLookupURL = "https://abr.business.gov.au/json/AbnDetails.aspx"

// DefaultCallback names the JSONP wrapper requested from the register.
const DefaultCallback = "callback"

// StatusActive is the register status of a current ABN.
const StatusActive = "Active"

// Poster sends a JSON payload to a target and returns the 2xx body.
type Poster interface {
	Post(ctx context.Context, target validation.Target, payload any) ([]byte, error)
}

// Details is the register's answer for one ABN.
type Details struct {
	Abn             string   `json:"Abn,omitempty"`
	AbnStatus       string   `json:"AbnStatus,omitempty"`
	AddressDate     string   `json:"AddressDate,omitempty"`
	AddressPostcode string   `json:"AddressPostcode,omitempty"`
	AddressState    string   `json:"AddressState,omitempty"`
	BusinessNames   []string `json:"BusinessName,omitempty"`
	EntityName      string   `json:"EntityName,omitempty"`
	EntityTypeCode  string   `json:"EntityTypeCode,omitempty"`
	EntityTypeName  string   `json:"EntityTypeName,omitempty"`
	Gst             string   `json:"Gst,omitempty"`
	Message         string   `json:"Message,omitempty"`
}

// Active reports whether the register lists the ABN as active.
func (d Details) Active() bool {
	return d.AbnStatus == StatusActive
}

// Lookup queries the register.
type Lookup struct {
	poster   Poster
	url      string
	guid     string
	callback string
}

// NewLookup returns a Lookup posting to endpoint with the register GUID. An
// empty endpoint or callback falls back to the defaults.
func NewLookup(poster Poster, endpoint, guid, callback string) *Lookup {
	if endpoint == "" {
		endpoint = DefaultLookupURL
	}
	if callback == "" {
		callback = DefaultCallback
	}
	return &Lookup{poster: poster, url: endpoint, guid: guid, callback: callback}
}

// Details fetches the register entry for abn.
func (l *Lookup) Details(ctx context.Context, abn string) (Details, error) {
	u, err := url.Parse(l.url)
	if err != nil {
		return Details{}, fmt.Errorf("abn: lookup url: %w", err)
	}
	q := u.Query()
	q.Set("abn", abn)
	q.Set("callback", l.callback)
	q.Set("guid", l.guid)
	u.RawQuery = q.Encode()

	body, err := l.poster.Post(ctx, validation.Target{URL: u.String()}, struct{}{})
	if err != nil {
		return Details{}, fmt.Errorf("abn: lookup %s: %w", abn, err)
	}

	var d Details
	if err := json.Unmarshal(unwrapJSONP(body, l.callback), &d); err != nil {
		return Details{}, fmt.Errorf("abn: decode lookup response: %w", err)
	}
	return d, nil
}

// unwrapJSONP strips a "callback(...)" wrapper, with or without a trailing
// semicolon. Bodies without the wrapper are returned trimmed.
func unwrapJSONP(body []byte, callback string) []byte {
	s := bytes.TrimSpace(body)
	s = bytes.TrimSuffix(s, []byte(";"))
	if rest, ok := bytes.CutPrefix(s, []byte(callback+"(")); ok {
		s = bytes.TrimSuffix(rest, []byte(")"))
	}
	return bytes.TrimSpace(s)
}
