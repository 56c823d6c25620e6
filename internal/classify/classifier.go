// Package classify scores a product record as a part or a material.
package classify

import (
	"fmt"
	"math"
	"strings"

	"catalogsync/internal/model"
)

type Scores struct {
	Part     int `json:"part"`
	Material int `json:"material"`
}

type Result struct {
	Type       model.ProductType `json:"type"`
	Confidence int               `json:"confidence"`
	Reasons    []string          `json:"reasons"`
	Scores     Scores            `json:"scores"`
}

type Classifier struct {
	rules Rules
}

func New(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify scores r. expected may be empty; "part" or "material" adds the
// caller bonus and decides ties.
func (c *Classifier) Classify(r *model.ProductRecord, expected model.ProductType) Result {
	rules := c.rules
	content := strings.ToLower(r.Name + " " + r.Description)
	url := strings.ToLower(r.URL)

	var s Scores
	var reasons []string

	if expected == model.TypePart || expected == model.TypeMaterial {
		s.add(expected, rules.ExpectedTypeBonus)
		reasons = append(reasons, fmt.Sprintf("User specified as %s", expected))
	}

	for _, tier := range rules.PartTiers {
		for _, kw := range tier.Keywords {
			if strings.Contains(content, kw) {
				s.Part += tier.Weight
				reasons = append(reasons, fmt.Sprintf("Part keyword: %q (%s confidence)", kw, tier.Name))
			}
		}
	}
	for _, tier := range rules.MaterialTiers {
		for _, kw := range tier.Keywords {
			if strings.Contains(content, kw) {
				s.Material += tier.Weight
				reasons = append(reasons, fmt.Sprintf("Material keyword: %q (%s confidence)", kw, tier.Name))
			}
		}
	}

	if r.Dimensions.Axes() >= 2 {
		s.Material += rules.DimensionBonus
		reasons = append(reasons, "Has dimensional specifications (material indicator)")
	}
	if containsAny(content, rules.BulkPhrases) {
		s.Material += rules.BulkBonus
		reasons = append(reasons, "Bulk/quantity selling (material indicator)")
	}
	if containsAny(content, rules.ManufacturingPhrases) {
		s.Part += rules.ManufacturingBonus
		reasons = append(reasons, "Manufacturing/precision terms (part indicator)")
	}

	for _, seg := range rules.PartURLSegments {
		if strings.Contains(url, seg) {
			s.Part += rules.URLBonus
			reasons = append(reasons, fmt.Sprintf("URL contains %q (part indicator)", seg))
		}
	}
	for _, seg := range rules.MaterialURLSegments {
		if strings.Contains(url, seg) {
			s.Material += rules.URLBonus
			reasons = append(reasons, fmt.Sprintf("URL contains %q (material indicator)", seg))
		}
	}

	if r.MaterialType != "" && containsAny(strings.ToLower(r.MaterialType), rules.MaterialNames) {
		s.Material += rules.MaterialNameBonus
		reasons = append(reasons, "Specific material type mentioned")
	}
	if r.Name != "" && rules.SizePattern != nil && rules.SizePattern.MatchString(r.Name) {
		s.Material += rules.SizePatternBonus
		reasons = append(reasons, "Dimensional sizing in name (material indicator)")
	}

	res := Result{Scores: s}
	total := s.Part + s.Material
	switch {
	case total == 0:
		res.Type = model.TypeUnknown
		reasons = append(reasons, "No clear indicators found")
	case s.Part > s.Material:
		res.Type = model.TypePart
		res.Confidence = c.confidence(s.Part, total)
	case s.Material > s.Part:
		res.Type = model.TypeMaterial
		res.Confidence = c.confidence(s.Material, total)
	default:
		// ties fall back to the caller's hint
		res.Type = model.TypeUnknown
		if expected != "" {
			res.Type = expected
		}
		res.Confidence = rules.TieConfidence
		reasons = append(reasons, "Equal indicators for both types")
	}
	res.Reasons = reasons
	return res
}

func (c *Classifier) confidence(win, total int) int {
	pct := int(math.Round(float64(win) / float64(total) * 100))
	return min(pct, c.rules.MaxConfidence)
}

func (s *Scores) add(t model.ProductType, n int) {
	if t == model.TypePart {
		s.Part += n
		return
	}
	s.Material += n
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
