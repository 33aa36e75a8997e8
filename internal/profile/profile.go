// Package profile parses repository datastream profile documents into the
// flat domain.Profile mapping.
package profile

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"fedstream/pkg/domain"
)

// FedoraManagementNS is the namespace the repository is expected to declare
// on profile responses. Some server versions omit the declaration entirely,
// so extraction keys on local element names and accepts documents with this
// namespace, another namespace, or none at all.
const FedoraManagementNS = "http://www.fedora.info/definitions/1/0/management/"

// Parse converts a raw profile document into the flat profile mapping.
// Fields reported once collapse to scalar strings; repeated fields (for
// example dsAltID) accumulate into ordered sequences. A malformed document
// yields an error; callers conventionally map that to an empty profile.
func Parse(raw []byte) (domain.Profile, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return domain.Profile{}, nil
	}
	dec := xml.NewDecoder(bytes.NewReader(raw))

	root, err := nextStart(dec)
	if err != nil {
		return nil, fmt.Errorf("profile: no document element: %w", err)
	}
	if root.Name.Local != "datastreamProfile" {
		return nil, fmt.Errorf("profile: unexpected document element %q", root.Name.Local)
	}

	out := domain.Profile{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("profile: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		value, err := elementText(dec, start)
		if err != nil {
			return nil, fmt.Errorf("profile: field %s: %w", start.Name.Local, err)
		}
		appendField(out, start.Name.Local, value)
	}
	return out, nil
}

// nextStart advances the decoder to the first start element.
func nextStart(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// elementText collects the character data of start up to its end element,
// flattening any nested markup.
func elementText(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 1 {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// appendField records a field value, promoting repeated fields to sequences.
func appendField(p domain.Profile, key, value string) {
	switch existing := p[key].(type) {
	case nil:
		p[key] = value
	case string:
		p[key] = []string{existing, value}
	case []string:
		p[key] = append(existing, value)
	}
}
