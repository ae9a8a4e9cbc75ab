package section

import (
	"regexp"
	"sync"
)

// NotFound is returned by Locate when the heading does not occur.
const NotFound = -1

// Locate returns the offset of the first case-insensitive occurrence of
// heading in text, or NotFound. The heading is matched literally. Offsets
// count bytes of the UTF-8 text, not characters.
func Locate(text, heading string) int {
	start, _ := locate(text, heading)
	return start
}

func locate(text, heading string) (start, end int) {
	if heading == "" {
		return NotFound, NotFound
	}
	loc := literalPattern(heading).FindStringIndex(text)
	if loc == nil {
		return NotFound, NotFound
	}
	return loc[0], loc[1]
}

// Headings come from a small vocabulary, so compiled patterns are kept.
// Past maxCachedPatterns new headings are compiled per call.
const maxCachedPatterns = 256

var patternCache = struct {
	sync.RWMutex
	m map[string]*regexp.Regexp
}{m: make(map[string]*regexp.Regexp)}

func literalPattern(heading string) *regexp.Regexp {
	patternCache.RLock()
	re, ok := patternCache.m[heading]
	patternCache.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(heading))
	patternCache.Lock()
	if len(patternCache.m) < maxCachedPatterns {
		patternCache.m[heading] = re
	}
	patternCache.Unlock()
	return re
}
