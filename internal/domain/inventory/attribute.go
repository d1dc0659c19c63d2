package inventory

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/stockroom/backend/internal/domain/shared"
)

// ValueKind identifies which value domain an attribute accepts
type ValueKind string

const (
	ValueKindText    ValueKind = "text"
	ValueKindNumber  ValueKind = "number"
	ValueKindOptions ValueKind = "options"
)

// ValueDomain is the set of values an attribute accepts. Each kind carries only
// the data it needs: only OptionsDomain has an option list.
type ValueDomain interface {
	Kind() ValueKind
	Validate(value string) error
}

// TextDomain accepts any string
type TextDomain struct{}

// Kind implements ValueDomain
func (TextDomain) Kind() ValueKind { return ValueKindText }

// Validate implements ValueDomain
func (TextDomain) Validate(string) error { return nil }

// NumberDomain accepts values that parse as a float
type NumberDomain struct{}

// Kind implements ValueDomain
func (NumberDomain) Kind() ValueKind { return ValueKindNumber }

// Validate implements ValueDomain
func (NumberDomain) Validate(value string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
		return shared.NewInvalidInput("value %q is not a number", value)
	}
	return nil
}

// OptionsDomain accepts one of an ordered list of options
type OptionsDomain struct {
	Options []string
}

// Kind implements ValueDomain
func (OptionsDomain) Kind() ValueKind { return ValueKindOptions }

// Validate implements ValueDomain
func (d OptionsDomain) Validate(value string) error {
	if !slices.Contains(d.Options, value) {
		return shared.NewInvalidInput("value %q is not one of %s", value, strings.Join(d.Options, ", "))
	}
	return nil
}

// Attribute is a tag that can be attached to item definitions, e.g. "Size" or "Color"
type Attribute struct {
	shared.BaseEntity
	Name   string
	Color  string
	Domain ValueDomain
}

// NewAttribute creates a new attribute
func NewAttribute(name, color string, domain ValueDomain) (*Attribute, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewInvalidInput("attribute name cannot be empty")
	}
	if domain == nil {
		domain = TextDomain{}
	}
	if opts, ok := domain.(OptionsDomain); ok && len(opts.Options) == 0 {
		return nil, shared.NewInvalidInput("options attribute %q needs at least one option", name)
	}
	return &Attribute{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Color:      color,
		Domain:     domain,
	}, nil
}

// domainJSON is the wire shape of a ValueDomain
type domainJSON struct {
	Kind    ValueKind `json:"kind"`
	Options []string  `json:"options,omitempty"`
}

// MarshalDomain encodes a value domain as {"kind":...,"options":[...]}
func MarshalDomain(d ValueDomain) ([]byte, error) {
	if d == nil {
		d = TextDomain{}
	}
	out := domainJSON{Kind: d.Kind()}
	if opts, ok := d.(OptionsDomain); ok {
		out.Options = opts.Options
	}
	return json.Marshal(out)
}

// UnmarshalDomain decodes the output of MarshalDomain
func UnmarshalDomain(data []byte) (ValueDomain, error) {
	if len(data) == 0 {
		return TextDomain{}, nil
	}
	var in domainJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decoding attribute domain: %w", err)
	}
	return DomainOf(in.Kind, in.Options)
}

// DomainOf builds the value domain for a kind
func DomainOf(kind ValueKind, options []string) (ValueDomain, error) {
	switch kind {
	case ValueKindText, "":
		return TextDomain{}, nil
	case ValueKindNumber:
		return NumberDomain{}, nil
	case ValueKindOptions:
		return OptionsDomain{Options: options}, nil
	default:
		return nil, fmt.Errorf("unknown attribute value kind %q", kind)
	}
}

// attributeJSON is the wire shape of an Attribute
type attributeJSON struct {
	shared.BaseEntity
	Name   string          `json:"name"`
	Color  string          `json:"color"`
	Domain json.RawMessage `json:"domain"`
}

// MarshalJSON implements json.Marshaler
func (a Attribute) MarshalJSON() ([]byte, error) {
	domain, err := MarshalDomain(a.Domain)
	if err != nil {
		return nil, err
	}
	return json.Marshal(attributeJSON{
		BaseEntity: a.BaseEntity,
		Name:       a.Name,
		Color:      a.Color,
		Domain:     domain,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var in attributeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	domain, err := UnmarshalDomain(in.Domain)
	if err != nil {
		return err
	}
	a.BaseEntity = in.BaseEntity
	a.Name = in.Name
	a.Color = in.Color
	a.Domain = domain
	return nil
}
