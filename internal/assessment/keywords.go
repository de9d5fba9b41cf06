package assessment

import (
	"regexp"
	"strings"
)

// keywordSet matches lowercase keywords against lowercase text as substrings,
// so "digitally" counts as "digital" and "maintain" counts as "ai".
type keywordSet struct {
	substrings []string
	words      *regexp.Regexp
}

func newKeywordSet(keywords ...string) keywordSet {
	var set keywordSet
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			set.substrings = append(set.substrings, kw)
		}
	}
	return set
}

// newWordKeywordSet is newKeywordSet except that keywords of two letters or
// fewer only match whole words. Industry rules use it so "said" does not
// classify a plan as technology.
func newWordKeywordSet(keywords ...string) keywordSet {
	var set keywordSet
	var short []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if len(kw) <= 2 {
			short = append(short, regexp.QuoteMeta(kw))
			continue
		}
		set.substrings = append(set.substrings, kw)
	}
	if len(short) > 0 {
		set.words = regexp.MustCompile(`\b(?:` + strings.Join(short, "|") + `)\b`)
	}
	return set
}

func (k keywordSet) matches(lower string) bool {
	for _, kw := range k.substrings {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return k.words != nil && k.words.MatchString(lower)
}
