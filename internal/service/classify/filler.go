package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// fillerPatterns are matched against the lowercased transcript. A match only
// counts when it is a whole word or phrase, see isWholeWord.
var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`uh+`),
	regexp.MustCompile(`um+`),
	regexp.MustCompile(`uhm+`),
	regexp.MustCompile(`ah+`),
	regexp.MustCompile(`er+`),
	regexp.MustCompile(`like`),
	regexp.MustCompile(`you know`),
	regexp.MustCompile(`actually`),
	regexp.MustCompile(`basically`),
	regexp.MustCompile(`literally`),
	regexp.MustCompile(`kind of`),
	regexp.MustCompile(`sort of`),
}

// RE2's \b only knows ASCII word characters, so boundaries are checked here
// against Unicode letters, numbers and underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isWholeWord reports whether s[start:end] is not adjacent to a word character.
func isWholeWord(s string, start, end int) bool {
	if r, size := utf8.DecodeLastRuneInString(s[:start]); size > 0 && isWordRune(r) {
		return false
	}
	if r, size := utf8.DecodeRuneInString(s[end:]); size > 0 && isWordRune(r) {
		return false
	}
	return true
}

// FillerUsage is the filler word tally of a transcript.
type FillerUsage struct {
	Count     int
	Words     int
	Rate      float64 // percent of words; only meaningful when Words > 0
	Breakdown map[string]int
}

// Words splits a transcript on whitespace.
func Words(transcript string) []string {
	return strings.Fields(transcript)
}

// CountFillers tallies filler words and phrases in transcript.
func CountFillers(transcript string) FillerUsage {
	lower := strings.ToLower(transcript)
	u := FillerUsage{
		Words:     len(Words(transcript)),
		Breakdown: map[string]int{},
	}
	for _, p := range fillerPatterns {
		for _, loc := range p.FindAllStringIndex(lower, -1) {
			if !isWholeWord(lower, loc[0], loc[1]) {
				continue
			}
			u.Breakdown[lower[loc[0]:loc[1]]]++
			u.Count++
		}
	}
	if u.Words > 0 {
		u.Rate = float64(u.Count) / float64(u.Words) * 100
	}
	return u
}
