package feed

import (
	"bytes"
	"regexp"
)

// Sanitizer rewrites feed documents that declare an Atom-style envelope
// without the Atom namespace. Such documents fail format detection, but
// renaming the envelope and entry tags to their RSS equivalents usually
// recovers them. Conformant RSS and Atom documents pass through untouched.
type Sanitizer struct {
	start   *regexp.Regexp
	end     *regexp.Regexp
	entries *regexp.Regexp
}

var atomNamespace = []byte("http://www.w3.org/2005/Atom")

func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		start:   regexp.MustCompile(`<feed([^>]*)>`),
		end:     regexp.MustCompile(`</feed>`),
		entries: regexp.MustCompile(`(</?)entry([\s>])`),
	}
}

func (s *Sanitizer) Run(data []byte) []byte {
	if bytes.Contains(data, atomNamespace) {
		return data
	}
	if !s.start.Match(data) || !s.end.Match(data) {
		return data
	}

	out := s.start.ReplaceAll(data, []byte(`<rss$1><channel>`))
	out = s.end.ReplaceAll(out, []byte(`</channel></rss>`))
	out = s.entries.ReplaceAll(out, []byte(`${1}item${2}`))
	return out
}
