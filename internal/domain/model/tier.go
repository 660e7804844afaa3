package model

import "fmt"

// Tier is the loyalty band derived from a score. Tiers are ordered:
// Bronze < Amber < Ruby < Gold.
type Tier int

const (
	Bronze Tier = iota
	Amber
	Ruby
	Gold
)

// String returns the external name of the tier.
func (t Tier) String() string {
	switch t {
	case Bronze:
		return "Bronze"
	case Amber:
		return "Amber"
	case Ruby:
		return "Ruby"
	case Gold:
		return "Gold"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// MarshalText renders the tier name in JSON payloads.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a tier name.
func (t *Tier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Bronze":
		*t = Bronze
	case "Amber":
		*t = Amber
	case "Ruby":
		*t = Ruby
	case "Gold":
		*t = Gold
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTier, string(b))
	}
	return nil
}
