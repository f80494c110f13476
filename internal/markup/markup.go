// Package markup splits question text into prose and fenced code segments.
package markup

import "strings"

// Fence is the literal delimiter around embedded code.
const Fence = "```"

// Kind tags a segment.
type Kind int

const (
	Prose Kind = iota
	Code
)

func (k Kind) String() string {
	if k == Code {
		return "code"
	}
	return "prose"
}

// Segment is one block following the title.
type Segment struct {
	Kind     Kind
	Language string // code only
	Text     string
}

// Document is the parsed form of a question's text.
type Document struct {
	Title    string
	Segments []Segment
}

// Parse splits text on Fence. The first piece is the trimmed title; after it,
// even positions are code (first line is the language tag) and odd positions
// are prose kept verbatim. Unbalanced fences are not reported.
func Parse(text string) Document {
	parts := strings.Split(text, Fence)
	doc := Document{Title: strings.TrimSpace(parts[0])}

	for i, part := range parts[1:] {
		if i%2 == 1 {
			doc.Segments = append(doc.Segments, Segment{Kind: Prose, Text: part})
			continue
		}
		lang, code, _ := strings.Cut(part, "\n")
		doc.Segments = append(doc.Segments, Segment{
			Kind:     Code,
			Language: strings.TrimSpace(lang),
			Text:     strings.TrimSpace(code),
		})
	}
	return doc
}
