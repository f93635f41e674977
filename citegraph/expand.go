package citegraph

import (
	"regexp"
	"strings"

	"github.com/siamjuris/clauseindex/core"
)

var (
	// compoundPattern matches a clause followed only by numeric sub-markers,
	// e.g. "ข้อ 36 (2) (3)". Sub-markers separated from the number by prose
	// are enumerated list items, not sub-clauses, and must not match.
	compoundPattern = regexp.MustCompile(`^(ข้อ\s*\d+)\s*((?:\(\d+\)\s*)+)$`)

	basePattern      = regexp.MustCompile(`^(ข้อ\s*\d+)`)
	subMarkerPattern = regexp.MustCompile(`\(\d+\)`)
	paragraphPattern = regexp.MustCompile(`วรรค.*`)
	spaceRun         = regexp.MustCompile(`\s+`)
)

// ExpandClauses normalizes raw clause references and splits compound ones.
// "ข้อ 36 (2) (3)" becomes ["ข้อ 36 (2)", "ข้อ 36 (3)"]; a reference whose
// sub-markers are separated by prose stays a single base clause. Paragraph
// (วรรค) suffixes are stripped. Thai digits are converted to Arabic.
func ExpandClauses(clauses []string) []string {
	expanded := make([]string, 0, len(clauses))
	for _, raw := range clauses {
		c := strings.TrimSpace(core.ThaiToArabic(raw))
		c = strings.TrimSpace(paragraphPattern.ReplaceAllString(c, ""))
		if c == "" {
			continue
		}

		if m := compoundPattern.FindStringSubmatch(c); m != nil {
			base := spaceRun.ReplaceAllString(strings.TrimSpace(m[1]), " ")
			for _, sub := range subMarkerPattern.FindAllString(m[2], -1) {
				expanded = append(expanded, base+" "+sub)
			}
			continue
		}

		// A clause followed by prose is an enumerated list, not a compound
		// citation: keep the base clause only.
		if m := basePattern.FindStringSubmatch(c); m != nil {
			expanded = append(expanded, spaceRun.ReplaceAllString(strings.TrimSpace(m[1]), " "))
			continue
		}

		expanded = append(expanded, spaceRun.ReplaceAllString(c, " "))
	}
	return expanded
}
