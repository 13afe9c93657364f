package extract

import (
	"regexp"
	"strings"

	"github.com/agreemshield/agreemshield/pkg/types/agreement"
)

// Heading shapes found in real funding agreements. A line matching any of
// these starts a new section.
var sectionHeadingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(?:SECTION|Section)\s+\d+`),
	regexp.MustCompile(`(?i)^\s*(?:ARTICLE|Article)\s+[IVXLC\d]+`),
	regexp.MustCompile(`^\s*\d+\.\s+[A-Z]`),
	regexp.MustCompile(`^[A-Z][A-Z\s&-]{9,}$`),
	regexp.MustCompile(`^\s*(?:[A-Z][a-z]+\s+)*(?:Clause|Agreement|Rights|Provision|Preference|Vesting)s?\s*$`),
}

const minSectionChars = 50

// DetectSections splits document text into titled sections. Heading-based
// splitting requires more than two heading matches; otherwise the document
// falls back to paragraph splitting.
func DetectSections(text string) []agreement.SectionDTO {
	lines := strings.Split(text, "\n")

	var headingIdx []int
	for i, line := range lines {
		if isHeading(strings.TrimSpace(line)) {
			headingIdx = append(headingIdx, i)
		}
	}

	if len(headingIdx) > 2 {
		return sectionsFromHeadings(lines, headingIdx)
	}
	return sectionsFromParagraphs(text)
}

func isHeading(line string) bool {
	if line == "" || len(line) > 200 {
		return false
	}
	for _, re := range sectionHeadingPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func sectionsFromHeadings(lines []string, headingIdx []int) []agreement.SectionDTO {
	var sections []agreement.SectionDTO
	for n, start := range headingIdx {
		end := len(lines)
		if n+1 < len(headingIdx) {
			end = headingIdx[n+1]
		}
		title := strings.TrimSpace(lines[start])
		body := strings.TrimSpace(strings.Join(lines[start+1:end], "\n"))
		if len(body) < minSectionChars {
			continue
		}
		sections = append(sections, agreement.SectionDTO{
			Title:    title,
			Text:     body,
			Position: len(sections),
		})
	}
	if len(sections) == 0 {
		return sectionsFromParagraphs(strings.Join(lines, "\n"))
	}
	return sections
}

func sectionsFromParagraphs(text string) []agreement.SectionDTO {
	var sections []agreement.SectionDTO
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) < minSectionChars {
			continue
		}
		sections = append(sections, agreement.SectionDTO{
			Title:    paragraphTitle(para),
			Text:     para,
			Position: len(sections),
		})
	}
	return sections
}

// paragraphTitle derives a short title from the first line of a paragraph.
func paragraphTitle(para string) string {
	first := para
	if idx := strings.IndexByte(para, '\n'); idx >= 0 {
		first = para[:idx]
	}
	first = strings.TrimSpace(first)
	if len(first) > 60 {
		first = strings.TrimSpace(first[:60]) + "…"
	}
	return first
}
