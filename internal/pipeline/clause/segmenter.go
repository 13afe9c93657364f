// Package clause segments extracted agreement text into typed clauses. Each
// section is scored against keyword and phrase signatures for every known
// clause type; the highest score wins, with a General Clause fallback when
// nothing matches.
package clause

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
)

// previewChars bounds the clause text carried in API payloads. The full
// text stays available for classification and comparison.
const previewChars = 500

// Segmenter turns document sections into typed clauses.
type Segmenter struct {
	log logging.Logger
}

// NewSegmenter constructs a Segmenter.
func NewSegmenter(log logging.Logger) *Segmenter {
	if log == nil {
		log = logging.Default()
	}
	return &Segmenter{log: log.Named("clause")}
}

// Segment classifies every section of the document into a clause. Sections
// that match no signature become General Clause entries. A document with no
// sections and no text yields an empty clause list.
func (s *Segmenter) Segment(ctx context.Context, doc *agreement.DocumentDTO) ([]agreement.ClauseDTO, error) {
	sections := doc.Sections
	if len(sections) == 0 {
		if strings.TrimSpace(doc.Text) == "" {
			return []agreement.ClauseDTO{}, nil
		}
		sections = []agreement.SectionDTO{{Title: doc.Filename, Text: doc.Text}}
	}

	clauses := make([]agreement.ClauseDTO, 0, len(sections))
	for i, sec := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clauseType := ClassifyType(sec.Text)
		clauses = append(clauses, agreement.ClauseDTO{
			Index:    i,
			Type:     clauseType,
			Title:    sec.Title,
			Text:     preview(sec.Text),
			FullText: sec.Text,
			Position: sec.Position,
			KeyTerms: ExtractKeyTerms(sec.Text, clauseType),
		})
	}

	s.log.Debug("document segmented",
		logging.Int("sections", len(sections)),
		logging.Int("clauses", len(clauses)))
	return clauses, nil
}

// ClassifyType scores text against every clause type signature and returns
// the best match. Keyword hits count for 2 points, phrase patterns for 3;
// a zero score yields the General Clause fallback.
func ClassifyType(text string) agreement.ClauseType {
	lower := strings.ToLower(text)

	best := agreement.ClauseGeneral
	bestScore := 0
	for _, clauseType := range agreement.KnownClauseTypes() {
		sig := typeSignatures[clauseType]
		score := 0
		for _, kw := range sig.keywords {
			if strings.Contains(lower, kw) {
				score += keywordScore
			}
		}
		for _, re := range sig.patterns {
			if re.MatchString(text) {
				score += patternScore
			}
		}
		if score > bestScore {
			bestScore = score
			best = clauseType
		}
	}
	return best
}

// ExtractKeyTerms pulls the salient numeric figures and type-specific
// phrases out of clause text.
func ExtractKeyTerms(text string, clauseType agreement.ClauseType) []string {
	var terms []string
	seen := make(map[string]bool)

	add := func(term string) {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	for i, m := range reNumericTerm.FindAllString(text, -1) {
		if i >= maxNumericTerms {
			break
		}
		add(m)
	}
	for _, re := range typeTermPatterns[clauseType] {
		for _, m := range re.FindAllString(text, -1) {
			add(m)
		}
	}
	return terms
}

func preview(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= previewChars {
		return text
	}
	cut := previewChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
