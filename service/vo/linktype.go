package vo

import (
	"encoding/json"
	"fmt"
)

// LinkType is the closed set of link styles a CMS may assign.
type LinkType string

const (
	LinkTypePrimary   LinkType = "PRIMARY"
	LinkTypeSecondary LinkType = "SECONDARY"
)

// LinkTypes returns all valid link types in declaration order.
func LinkTypes() []LinkType {
	return []LinkType{LinkTypePrimary, LinkTypeSecondary}
}

func (t LinkType) Valid() bool {
	switch t {
	case LinkTypePrimary, LinkTypeSecondary:
		return true
	}
	return false
}

// ParseLinkType matches the wire value exactly, casing included.
func ParseLinkType(s string) (LinkType, error) {
	t := LinkType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid link type %q", s)
	}
	return t, nil
}

func (t *LinkType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLinkType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
