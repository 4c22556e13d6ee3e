package score

import (
	"database/sql/driver"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalText encodes the canonical string form. It also drives JSON encoding.
func (s Bendable) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Bendable) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalYAML always emits a quoted scalar; a bare "[..]hard" would read back as a flow sequence.
func (s Bendable) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Style: yaml.DoubleQuotedStyle,
		Tag:   "!!str",
		Value: s.String(),
	}, nil
}

func (s *Bendable) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: expected a quoted score string at line %d", ErrParse, value.Line)
	}
	return s.UnmarshalText([]byte(value.Value))
}

// Value stores the canonical string form.
func (s Bendable) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan reads a score stored by Value.
func (s *Bendable) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	case nil:
		return fmt.Errorf("%w: cannot scan NULL into score", ErrParse)
	default:
		return fmt.Errorf("%w: cannot scan %T into score", ErrParse, src)
	}
}
