package core

import (
	"regexp"
	"strings"
)

const (
	thaiDigits   = "๐๑๒๓๔๕๖๗๘๙"
	arabicDigits = "0123456789"
)

var (
	thaiToArabic   = buildDigitMap(thaiDigits, arabicDigits)
	arabicToThai   = buildDigitMap(arabicDigits, thaiDigits)
	editionPattern = regexp.MustCompile(`\s*\(ฉบับที่\s*\d+\)`)
	yearPattern    = regexp.MustCompile(`พ\.ศ\.\s*\d+`)
	spacePattern   = regexp.MustCompile(`\s+`)
	splitSuffix    = regexp.MustCompile(`_p\d+$`)
)

func buildDigitMap(from, to string) map[rune]rune {
	m := make(map[rune]rune, 10)
	toRunes := []rune(to)
	for i, r := range []rune(from) {
		m[r] = toRunes[i]
	}
	return m
}

// ThaiToArabic converts Thai numerals in text to Arabic numerals so clause
// references from different sources compare equal.
func ThaiToArabic(text string) string {
	return strings.Map(func(r rune) rune {
		if a, ok := thaiToArabic[r]; ok {
			return a
		}
		return r
	}, text)
}

// ArabicToThai converts Arabic numerals to Thai numerals, matching the
// convention used inside regulation body text.
func ArabicToThai(text string) string {
	return strings.Map(func(r rune) rune {
		if t, ok := arabicToThai[r]; ok {
			return t
		}
		return r
	}, text)
}

// NormalizeLawName strips version and year decorations from a law title so
// every amendment of the same regulation maps to one lineage key.
// "ระเบียบ...ว่าด้วยการตรวจสอบ (ฉบับที่ ๒) พ.ศ. ๒๕๖๘" and the พ.ศ. ๒๕๖๖
// original both normalize to the same string.
func NormalizeLawName(raw string) string {
	if raw == "" {
		return ""
	}
	name := ThaiToArabic(raw)
	name = strings.ReplaceAll(name, "สตง.", "สำนักงานการตรวจเงินแผ่นดิน")
	name = editionPattern.ReplaceAllString(name, "")
	name = yearPattern.ReplaceAllString(name, "")
	return spacePattern.ReplaceAllString(name, "")
}

// NormalizeClauseID strips sub-split suffixes and collapses whitespace so
// "ข้อ  ๑๔_p2" matches the citation-map key "ข้อ 14".
func NormalizeClauseID(raw string) string {
	if raw == "" {
		return ""
	}
	id := splitSuffix.ReplaceAllString(raw, "")
	id = ThaiToArabic(id)
	return strings.TrimSpace(spacePattern.ReplaceAllString(id, " "))
}
