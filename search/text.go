package search

import (
	"strings"
	"unicode"
)

// isThaiRune reports whether r falls in the Thai Unicode block.
func isThaiRune(r rune) bool {
	return r >= 0x0E00 && r <= 0x0E7F
}

// tokenize splits text into lowercase terms for lexical scoring. Latin and
// digit runs become single tokens. Thai runs carry no word boundaries, so
// each run is kept whole and additionally folded into rune trigrams; the
// trigrams give partial matches a chance against agglutinated legal phrasing.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r)
	})

	var tokens []string
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if f == "" {
			continue
		}
		f = strings.ToLower(f)

		runs := splitScriptRuns(f)
		for _, run := range runs {
			if run.thai {
				tokens = append(tokens, run.text)
				tokens = append(tokens, thaiTrigrams(run.text)...)
			} else {
				tokens = append(tokens, run.text)
			}
		}
	}
	return tokens
}

type scriptRun struct {
	text string
	thai bool
}

// splitScriptRuns breaks a token into maximal runs of Thai and non-Thai
// runes. Mixed tokens such as "มาตรา9" yield two runs.
func splitScriptRuns(s string) []scriptRun {
	var runs []scriptRun
	var cur []rune
	curThai := false
	for i, r := range s {
		thai := isThaiRune(r)
		if i == 0 {
			curThai = thai
		}
		if thai != curThai {
			runs = append(runs, scriptRun{text: string(cur), thai: curThai})
			cur = cur[:0]
			curThai = thai
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		runs = append(runs, scriptRun{text: string(cur), thai: curThai})
	}
	return runs
}

// thaiTrigrams returns the rune trigrams of a Thai run. Runs of three runes
// or fewer produce nothing; the whole run already stands as a token.
func thaiTrigrams(s string) []string {
	runes := []rune(s)
	if len(runes) <= 3 {
		return nil
	}
	grams := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+3]))
	}
	return grams
}
