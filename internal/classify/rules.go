package classify

import "regexp"

// Tier is a group of keywords sharing one weight.
type Tier struct {
	Name     string
	Weight   int
	Keywords []string
}

// Rules holds every weight and keyword table the classifier scores with.
// A Rules value is read-only once handed to New.
type Rules struct {
	ExpectedTypeBonus int

	PartTiers     []Tier
	MaterialTiers []Tier

	DimensionBonus int

	BulkPhrases []string
	BulkBonus   int

	ManufacturingPhrases []string
	ManufacturingBonus   int

	PartURLSegments     []string
	MaterialURLSegments []string
	URLBonus            int

	MaterialNames     []string
	MaterialNameBonus int

	SizePattern      *regexp.Regexp
	SizePatternBonus int

	MaxConfidence int
	TieConfidence int
}

// DefaultRules returns the stock tables.
func DefaultRules() Rules {
	return Rules{
		ExpectedTypeBonus: 50,
		PartTiers: []Tier{
			{Name: "high", Weight: 10, Keywords: []string{"bolt", "screw", "fastener", "washer", "nut", "rivet", "pin", "clip"}},
			{Name: "medium", Weight: 5, Keywords: []string{"bearing", "gear", "spring", "valve", "fitting", "connector", "switch", "sensor"}},
			{Name: "low", Weight: 2, Keywords: []string{"resistor", "capacitor", "chip", "module", "component", "assembly"}},
		},
		MaterialTiers: []Tier{
			{Name: "high", Weight: 10, Keywords: []string{"sheet", "plate", "bar", "tube", "pipe", "rod", "wire", "strip", "foil", "mesh"}},
			{Name: "medium", Weight: 5, Keywords: []string{"lumber", "plywood", "fabric", "leather", "rubber", "foam", "insulation"}},
			{Name: "low", Weight: 2, Keywords: []string{"stock", "blank", "raw", "material", "supply"}},
		},
		DimensionBonus:       5,
		BulkPhrases:          []string{"per foot", "per meter", "per yard", "per sheet", "per roll", "bulk", "wholesale"},
		BulkBonus:            8,
		ManufacturingPhrases: []string{"assembled", "manufactured", "machined", "precision", "tolerance", "specification"},
		ManufacturingBonus:   6,
		PartURLSegments:      []string{"parts", "components", "fasteners", "hardware"},
		MaterialURLSegments:  []string{"materials", "supplies", "stock", "raw", "sheets", "bars"},
		URLBonus:             3,
		MaterialNames:        []string{"aluminum", "steel", "plastic", "wood", "copper", "brass", "titanium"},
		MaterialNameBonus:    2,
		// unit on the first number is optional so "12 x 24 inches" counts
		SizePattern:      regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*(?:mm|cm|inch|in|ft|'|")?\s*[x×]\s*\d+`),
		SizePatternBonus: 7,
		MaxConfidence:    95,
		TieConfidence:    50,
	}
}
