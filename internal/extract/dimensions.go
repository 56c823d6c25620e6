package extract

import (
	"catalogsync/internal/model"
	"catalogsync/internal/normalize"
)

const (
	AxisLength   = "length"
	AxisWidth    = "width"
	AxisHeight   = "height"
	AxisDiameter = "diameter"
)

type dimRank int

const (
	rankNone dimRank = iota
	rankSingle
	rankPair
	rankTriple
)

// dimState merges dimension matches. A match with more values replaces a
// poorer result; labeled singles only fill empty axes in the same unit.
type dimState struct {
	dims model.Dimensions
	rank dimRank
}

// dimensions searches the name first and the markup only when the name
// yielded no measurement, so unrelated sizes elsewhere on the page never
// replace the title's.
func (x *Extractor) dimensions(name, markup string) model.Dimensions {
	var st dimState
	for _, text := range []string{name, markup} {
		if text == "" {
			continue
		}
		for _, p := range x.tables.Dimensions {
			st.apply(p, text)
			if st.dims.Axes() >= 2 {
				return st.dims
			}
		}
		if st.rank > rankNone {
			return st.dims
		}
	}
	return st.dims
}

func (st *dimState) apply(p DimensionPattern, text string) {
	for _, m := range p.Re.FindAllStringSubmatch(text, -1) {
		values, ok := matchValues(m, p.ValueGroups)
		if !ok {
			continue
		}
		unit := p.FixedUnit
		if unit == "" && p.UnitGroup < len(m) {
			unit = normalize.NormalizeUnit(m[p.UnitGroup])
		}
		if _, known := normalize.ToMillimeters(1, unit); !known {
			continue
		}

		switch {
		case len(values) >= 3:
			if st.rank < rankTriple {
				st.dims = model.Dimensions{Length: &values[0], Width: &values[1], Height: &values[2], Unit: unit}
				st.rank = rankTriple
			}
			return
		case len(values) == 2:
			if st.rank < rankPair {
				st.dims = model.Dimensions{Length: &values[0], Width: &values[1], Unit: unit}
				st.rank = rankPair
			}
			return
		case p.Axis != "":
			if st.rank > rankSingle {
				return
			}
			if st.dims.Unit != "" && st.dims.Unit != unit {
				continue
			}
			if st.fill(p.Axis, values[0]) {
				st.dims.Unit = unit
				st.rank = rankSingle
			}
		}
	}
}

func (st *dimState) fill(axis string, v float64) bool {
	var slot **float64
	switch axis {
	case AxisLength:
		slot = &st.dims.Length
	case AxisWidth:
		slot = &st.dims.Width
	case AxisHeight:
		slot = &st.dims.Height
	case AxisDiameter:
		slot = &st.dims.Diameter
	default:
		return false
	}
	if *slot != nil {
		return false
	}
	*slot = &v
	return true
}

// matchValues parses the populated value groups; every one must be a
// positive number.
func matchValues(m []string, groups []int) ([]float64, bool) {
	var out []float64
	for _, g := range groups {
		if g >= len(m) || m[g] == "" {
			continue
		}
		v, ok := normalize.ParseDimensionValue(m[g])
		if !ok || v <= 0 {
			return nil, false
		}
		out = append(out, v)
	}
	return out, len(out) > 0
}
