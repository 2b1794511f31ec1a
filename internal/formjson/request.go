package formjson

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// maxFormBytes caps request bodies read by ReadRequest.
const maxFormBytes = 10 << 20

var (
	// ErrUnsupportedMediaType is returned by ReadRequest for bodies that are
	// neither url-encoded nor multipart form data.
	ErrUnsupportedMediaType = errors.New("formjson: unsupported media type")

	// ErrFormNotFound is returned by ReadHTML when the document holds no
	// matching form.
	ErrFormNotFound = errors.New("formjson: form not found")
)

// ParseQuery parses an application/x-www-form-urlencoded string into entries,
// keeping the order in which pairs appear. Pairs with an empty name are
// skipped.
func ParseQuery(raw string) ([]FieldEntry, error) {
	var entries []FieldEntry
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}
		if strings.Contains(pair, ";") {
			return nil, fmt.Errorf("formjson: invalid semicolon separator in query")
		}

		key, value, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("formjson: invalid field name %q: %w", key, err)
		}
		if name == "" {
			continue
		}
		val, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("formjson: invalid value for %q: %w", name, err)
		}
		entries = append(entries, FieldEntry{Name: name, Value: val})
	}
	return entries, nil
}

// ReadRequest reads the submitted fields of r in order. GET and HEAD requests
// read the URL query; other methods read an url-encoded or multipart body.
// File parts of a multipart body are skipped.
func ReadRequest(r *http.Request) ([]FieldEntry, error) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return ParseQuery(r.URL.RawQuery)
	}

	ct := r.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/x-www-form-urlencoded"
	}
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, ct)
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		body, err := io.ReadAll(io.LimitReader(r.Body, maxFormBytes+1))
		if err != nil {
			return nil, fmt.Errorf("formjson: read body: %w", err)
		}
		if len(body) > maxFormBytes {
			return nil, fmt.Errorf("formjson: body exceeds %d bytes", maxFormBytes)
		}
		return ParseQuery(string(body))
	case "multipart/form-data":
		if params["boundary"] == "" {
			return nil, fmt.Errorf("formjson: multipart body without boundary")
		}
		return readMultipart(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
}

func readMultipart(r *http.Request) ([]FieldEntry, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("formjson: %w", err)
	}

	var (
		entries []FieldEntry
		read    int64
	)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("formjson: next part: %w", err)
		}

		name := part.FormName()
		if name == "" || part.FileName() != "" {
			part.Close()
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, maxFormBytes-read+1))
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("formjson: read part %q: %w", name, err)
		}
		read += int64(len(data))
		if read > maxFormBytes {
			return nil, fmt.Errorf("formjson: body exceeds %d bytes", maxFormBytes)
		}
		entries = append(entries, FieldEntry{Name: name, Value: string(data)})
	}
}
