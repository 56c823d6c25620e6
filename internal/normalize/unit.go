package normalize

import "strings"

const (
	UnitMM = "mm"
	UnitCM = "cm"
	UnitIn = "in"
	UnitFt = "ft"

	MillimetersPerInch = 25.4
	MillimetersPerFoot = 304.8
)

var unitSynonyms = map[string]string{
	"mm":          UnitMM,
	"millimeter":  UnitMM,
	"millimeters": UnitMM,
	"millimetre":  UnitMM,
	"millimetres": UnitMM,
	"cm":          UnitCM,
	"centimeter":  UnitCM,
	"centimeters": UnitCM,
	"centimetre":  UnitCM,
	"centimetres": UnitCM,
	"in":          UnitIn,
	"inch":        UnitIn,
	"inches":      UnitIn,
	`"`:           UnitIn,
	"″":           UnitIn,
	"ft":          UnitFt,
	"foot":        UnitFt,
	"feet":        UnitFt,
	"'":           UnitFt,
	"′":           UnitFt,
}

// NormalizeUnit maps a unit token to mm, cm, in or ft. Tokens it does not
// know are returned as given.
func NormalizeUnit(token string) string {
	if u, ok := unitSynonyms[strings.ToLower(strings.TrimSpace(token))]; ok {
		return u
	}
	return token
}

// ToMillimeters converts v expressed in a canonical unit.
func ToMillimeters(v float64, unit string) (float64, bool) {
	switch unit {
	case UnitMM:
		return v, true
	case UnitCM:
		return v * 10, true
	case UnitIn:
		return v * MillimetersPerInch, true
	case UnitFt:
		return v * MillimetersPerFoot, true
	}
	return 0, false
}
