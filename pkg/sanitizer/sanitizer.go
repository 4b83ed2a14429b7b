package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reControlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	reBlankLines   = regexp.MustCompile(`\n{3,}`)
	reTrailingWS   = regexp.MustCompile(`[ \t]+\n`)
)

func stripControl(s string) string {
	return reControlChars.ReplaceAllString(s, "")
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// TrimText cleans multi-line text such as an event description while keeping its paragraphs.
func TrimText(input string) string {
	p := Pipeline{
		normalizeNewlines,
		stripControl,
		func(s string) string { return reTrailingWS.ReplaceAllString(s, "\n") },
		func(s string) string { return reBlankLines.ReplaceAllString(s, "\n\n") },
		strings.TrimSpace,
	}
	return p.Apply(input)
}

func NormalizeEmail(email string) string {
	p := Pipeline{
		strings.TrimSpace,
		strings.ToLower,
	}
	return p.Apply(email)
}
