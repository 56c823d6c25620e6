package extract

import "regexp"

var (
	nameStrip        = regexp.MustCompile(`[^\w\s\-.]`)
	descriptionStrip = regexp.MustCompile(`[^\w\s\-.,]`)
)

func cleanName(s string) string {
	return collapseSpace(nameStrip.ReplaceAllString(s, ""))
}

func cleanDescription(s string, limit int) string {
	s = collapseSpace(descriptionStrip.ReplaceAllString(s, ""))
	if limit > 0 && len(s) > limit {
		s = s[:limit]
	}
	return s
}
