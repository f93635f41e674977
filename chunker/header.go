package chunker

import (
	"regexp"
	"strings"
)

// refPattern matches trailing attachment reference lines, e.g.
// "สิ่งที่ส่งมาด้วย แบบรายงาน.pdf".
var refPattern = regexp.MustCompile(`(?i)^\s*[\(\[]?\s*(เอกสาร|สิ่งที่ส่งมาด้วย|แบบ|อ้างถึง)?.*?\.(docx|doc|pdf|xlsx|xls|ppt|pptx)$`)

// ExtractTitle returns the law name a document would be chunked under: the
// first non-empty line of the text, or "Unknown" when there is none.
func ExtractTitle(text string) string {
	lawName, _, _ := extractHeaderAndFooter(text)
	return lawName
}

// extractHeaderAndFooter pulls the law name (first non-empty line) and the
// attachment references (matching lines at the bottom, collected bottom-up)
// out of the raw text. The returned body lines exclude both.
func extractHeaderAndFooter(text string) (lawName string, references []string, body []string) {
	lines := strings.Split(text, "\n")

	// Strip references bottom-up. Blank trailing lines are dropped along
	// the way; the first non-matching content line ends the scan.
	for len(lines) > 0 {
		last := strings.TrimSpace(lines[len(lines)-1])
		if last == "" {
			lines = lines[:len(lines)-1]
			continue
		}
		if refPattern.MatchString(last) {
			references = append([]string{last}, references...)
			lines = lines[:len(lines)-1]
			continue
		}
		break
	}

	// First non-empty line is the law name; everything after it is body.
	lawName = "Unknown"
	found := false
	for _, line := range lines {
		if !found {
			if strings.TrimSpace(line) != "" {
				lawName = strings.TrimSpace(line)
				found = true
			}
			continue
		}
		body = append(body, line)
	}

	return lawName, references, body
}
