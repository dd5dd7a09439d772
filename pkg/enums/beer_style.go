package enums

import (
	"fmt"
	"strings"
)

// BeerStyle is the closed set of styles a catalog beer can carry.
type BeerStyle string

const (
	BeerStyleLager   BeerStyle = "LAGER"
	BeerStylePilsner BeerStyle = "PILSNER"
	BeerStyleStout   BeerStyle = "STOUT"
	BeerStyleGose    BeerStyle = "GOSE"
	BeerStylePorter  BeerStyle = "PORTER"
	BeerStyleAle     BeerStyle = "ALE"
	BeerStyleWheat   BeerStyle = "WHEAT"
	BeerStyleIPA     BeerStyle = "IPA"
	BeerStylePaleAle BeerStyle = "PALE_ALE"
	BeerStyleSaison  BeerStyle = "SAISON"
)

var validBeerStyles = []BeerStyle{
	BeerStyleLager,
	BeerStylePilsner,
	BeerStyleStout,
	BeerStyleGose,
	BeerStylePorter,
	BeerStyleAle,
	BeerStyleWheat,
	BeerStyleIPA,
	BeerStylePaleAle,
	BeerStyleSaison,
}

// String implements fmt.Stringer.
func (s BeerStyle) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BeerStyle.
func (s BeerStyle) IsValid() bool {
	for _, candidate := range validBeerStyles {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseBeerStyle converts a label into a BeerStyle. Labels match exactly after trimming.
func ParseBeerStyle(value string) (BeerStyle, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validBeerStyles {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid beer style %q", value)
}

// BeerStyles returns the known styles in declaration order.
func BeerStyles() []BeerStyle {
	return append([]BeerStyle(nil), validBeerStyles...)
}
