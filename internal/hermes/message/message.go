package message

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	hermeserrors "github.com/hermes-org/acceptance-tests/internal/errors"
)

// Attr is one payload attribute in wire order. Order is preserved so
// String()'s canonical rendering is stable and so negative-path scenarios
// can splice attributes at a specific position (spec §8 scenario 2).
type Attr struct {
	Name  string
	Value string
}

// Message is the Hermes XML envelope: an outer <Hermes Timestamp="..">
// wrapping exactly one tagged child element carrying the payload (spec §3).
type Message struct {
	Timestamp string
	Tag       Tag
	Attrs     []Attr
	// Features holds ServiceDescription's <SupportedFeatures> children;
	// nil for every other tag.
	Features []string
}

func newMessage(tag Tag) *Message {
	return &Message{
		Tag:       tag,
		Timestamp: time.Now().Format("2006-01-02T15:04:05.000"),
	}
}

// set appends name=value only when value is non-nil, mirroring the
// original constructors' "set(name, value)" helper that skips None.
func (m *Message) set(name string, value *string) {
	if value != nil {
		m.Attrs = append(m.Attrs, Attr{Name: name, Value: *value})
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *string {
	s := fmt.Sprintf("%d", i)
	return &s
}

func floatPtr(f float64) *string {
	s := fmt.Sprintf("%g", f)
	return &s
}

// Get returns the named attribute's value, or ("", false) if absent —
// the Go equivalent of "accessing unknown attributes yields null".
func (m *Message) Get(name string) (string, bool) {
	for _, a := range m.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// GetOr returns the named attribute's value or fallback if absent.
func (m *Message) GetOr(name, fallback string) string {
	if v, ok := m.Get(name); ok {
		return v
	}
	return fallback
}

// ToBytes serializes the message as a standalone UTF-8 XML document.
func (m *Message) ToBytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	root := xml.StartElement{
		Name: xml.Name{Local: "Hermes"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "Timestamp"}, Value: m.Timestamp}},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, hermeserrors.NewParseError("message.ToBytes", err)
	}

	attrs := make([]xml.Attr, len(m.Attrs))
	for i, a := range m.Attrs {
		attrs[i] = xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value}
	}
	child := xml.StartElement{Name: xml.Name{Local: string(m.Tag)}, Attr: attrs}
	if err := enc.EncodeToken(child); err != nil {
		return nil, hermeserrors.NewParseError("message.ToBytes", err)
	}

	if m.Tag == TagServiceDescription {
		features := xml.StartElement{Name: xml.Name{Local: "SupportedFeatures"}}
		if err := enc.EncodeToken(features); err != nil {
			return nil, hermeserrors.NewParseError("message.ToBytes", err)
		}
		for _, f := range m.Features {
			fe := xml.StartElement{Name: xml.Name{Local: f}}
			if err := enc.EncodeToken(fe); err != nil {
				return nil, hermeserrors.NewParseError("message.ToBytes", err)
			}
			if err := enc.EncodeToken(xml.EndElement{Name: fe.Name}); err != nil {
				return nil, hermeserrors.NewParseError("message.ToBytes", err)
			}
		}
		if err := enc.EncodeToken(xml.EndElement{Name: features.Name}); err != nil {
			return nil, hermeserrors.NewParseError("message.ToBytes", err)
		}
	}

	if err := enc.EncodeToken(xml.EndElement{Name: child.Name}); err != nil {
		return nil, hermeserrors.NewParseError("message.ToBytes", err)
	}
	if err := enc.EncodeToken(xml.EndElement{Name: root.Name}); err != nil {
		return nil, hermeserrors.NewParseError("message.ToBytes", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, hermeserrors.NewParseError("message.ToBytes", err)
	}
	return buf.Bytes(), nil
}

// String renders a canonicalized, whitespace-stripped form suitable for
// stable comparisons in tests, mirroring the Python repr's use of
// ET.canonicalize(strip_text=True).
func (m *Message) String() string {
	b, err := m.ToBytes()
	if err != nil {
		return fmt.Sprintf("<invalid Hermes message: %v>", err)
	}
	return strings.TrimSpace(string(b))
}

// Parse decodes one complete Hermes XML document. The root element must be
// literally "Hermes" with exactly one child; anything else is a
// *ParseError.
func Parse(data []byte) (*Message, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	root, err := nextStart(dec)
	if err != nil {
		return nil, hermeserrors.NewParseError("message.Parse", err)
	}
	if root == nil {
		return nil, hermeserrors.NewParseError("message.Parse", fmt.Errorf("empty document"))
	}
	if root.Name.Local != "Hermes" {
		return nil, hermeserrors.NewParseError("message.Parse",
			fmt.Errorf("root element is %q, want Hermes", root.Name.Local))
	}

	m := &Message{Timestamp: attrValue(root.Attr, "Timestamp")}

	child, err := nextStart(dec)
	if err != nil {
		return nil, hermeserrors.NewParseError("message.Parse", err)
	}
	if child == nil {
		return nil, hermeserrors.NewParseError("message.Parse", fmt.Errorf("Hermes element has no child"))
	}
	m.Tag = Tag(child.Name.Local)
	for _, a := range child.Attr {
		m.Attrs = append(m.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
	}

	// depth counts nesting below the payload child: 1 means "directly inside
	// the child", as set above. When depth returns to 0 the child itself has
	// closed, but that is not yet proof Hermes had exactly one child — a
	// self-closing child (the common wire shape, e.g. <CheckAlive/>) emits
	// its EndElement immediately, so depth hits 0 on the very first token
	// and a naive "depth==0 -> done" would never notice a following
	// sibling. So once depth==0 we keep reading: a further StartElement at
	// that level is a second child (an error); only Hermes's own
	// EndElement, seen with depth still at 0, ends the document.
	depth := 1
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, hermeserrors.NewParseError("message.Parse", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				return nil, hermeserrors.NewParseError("message.Parse",
					fmt.Errorf("Hermes element has more than one child"))
			}
			if depth == 1 && t.Name.Local == "SupportedFeatures" {
				features, err := readFeatures(dec)
				if err != nil {
					return nil, hermeserrors.NewParseError("message.Parse", err)
				}
				m.Features = features
				continue
			}
			if depth == 1 {
				return nil, hermeserrors.NewParseError("message.Parse",
					fmt.Errorf("Hermes element has more than one child"))
			}
			depth++
		case xml.EndElement:
			if depth == 0 && t.Name.Local == root.Name.Local {
				return m, nil
			}
			depth--
		}
	}
}

func readFeatures(dec *xml.Decoder) ([]string, error) {
	var features []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			features = append(features, t.Name.Local)
		case xml.EndElement:
			if t.Name.Local == "SupportedFeatures" {
				return features, nil
			}
		}
	}
}

func nextStart(dec *xml.Decoder) (*xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			se = se.Copy()
			return &se, nil
		}
	}
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
