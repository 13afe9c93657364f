package clause

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
)

func TestClassifyType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want agreement.ClauseType
	}{
		{
			name: "liquidation preference",
			text: "In the event of a liquidation, the holders of Preferred Stock shall receive a 2x participating liquidation preference on the distribution of proceeds.",
			want: agreement.ClauseLiquidationPreference,
		},
		{
			name: "anti-dilution",
			text: "The conversion price shall be subject to full ratchet anti-dilution adjustment in the event of a down round.",
			want: agreement.ClauseAntiDilution,
		},
		{
			name: "board control",
			text: "The Investor shall be entitled to designate two members of the board of directors, and the board composition shall not change without consent.",
			want: agreement.ClauseBoardControl,
		},
		{
			name: "vesting",
			text: "Founder shares are subject to a 4-year vesting schedule with a 1-year cliff; unvested shares may be repurchased by the Company.",
			want: agreement.ClauseVesting,
		},
		{
			name: "drag-along",
			text: "Each shareholder agrees to a drag-along obligation and may be compelled to sell its shares upon an approved sale of the company.",
			want: agreement.ClauseDragAlong,
		},
		{
			name: "ip assignment",
			text: "Each founder has executed an assignment of inventions agreement covering all intellectual property and prior inventions.",
			want: agreement.ClauseIPAssignment,
		},
		{
			name: "no signature match",
			text: "This agreement shall be governed by the laws of the State of Delaware without regard to conflicts principles.",
			want: agreement.ClauseGeneral,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ClassifyType(tc.text))
		})
	}
}

func TestExtractKeyTerms(t *testing.T) {
	t.Parallel()

	text := "A 2x participating preference with 1.5x carve-out applies; conversion at 20% discount over a 4-year period."
	terms := ExtractKeyTerms(text, agreement.ClauseLiquidationPreference)

	assert.Contains(t, terms, "2x")
	assert.Contains(t, terms, "1.5x")
	assert.Contains(t, terms, "20%")
	assert.Contains(t, terms, "participating")
}

func TestExtractKeyTermsNumericLimit(t *testing.T) {
	t.Parallel()

	text := "1x 2x 3x 4x 5x 6x 7x 8x"
	terms := ExtractKeyTerms(text, agreement.ClauseGeneral)
	assert.Len(t, terms, 5)
}

func TestExtractKeyTermsVesting(t *testing.T) {
	t.Parallel()

	terms := ExtractKeyTerms("vesting over a 4-year period with a 6 month cliff", agreement.ClauseVesting)
	assert.Contains(t, terms, "4-year")
	assert.Contains(t, terms, "6 month")
}

func TestSegmentUsesSections(t *testing.T) {
	t.Parallel()

	doc := &agreement.DocumentDTO{
		Filename: "deal.txt",
		Sections: []agreement.SectionDTO{
			{Title: "1. Liquidation", Text: "The investors receive a 3x participating liquidation preference on all proceeds.", Position: 0},
			{Title: "2. Governing Law", Text: "Delaware law governs this agreement in all respects without exception whatsoever.", Position: 1},
		},
	}

	clauses, err := NewSegmenter(logging.NewNopLogger()).Segment(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, clauses, 2)

	assert.Equal(t, agreement.ClauseLiquidationPreference, clauses[0].Type)
	assert.Equal(t, "1. Liquidation", clauses[0].Title)
	assert.Equal(t, agreement.ClauseGeneral, clauses[1].Type)
}

func TestSegmentFallsBackToWholeText(t *testing.T) {
	t.Parallel()

	doc := &agreement.DocumentDTO{
		Filename: "whole.txt",
		Text:     "Full ratchet anti-dilution protection applies to all preferred shares.",
	}

	clauses, err := NewSegmenter(logging.NewNopLogger()).Segment(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, agreement.ClauseAntiDilution, clauses[0].Type)
}

func TestSegmentEmptyDocument(t *testing.T) {
	t.Parallel()

	doc := &agreement.DocumentDTO{Filename: "blank.txt", Text: "   \n\t  "}

	clauses, err := NewSegmenter(logging.NewNopLogger()).Segment(context.Background(), doc)
	require.NoError(t, err)
	assert.NotNil(t, clauses)
	assert.Empty(t, clauses)
}

func TestPreviewTruncates(t *testing.T) {
	t.Parallel()

	long := make([]byte, 900)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, preview(string(long)), previewChars)
	assert.Equal(t, "short", preview("  short  "))
}

func TestPreviewKeepsRuneBoundary(t *testing.T) {
	t.Parallel()

	// Each rune is three bytes, so a naive 500-byte cut would land inside
	// one. The preview backs up to the previous boundary at byte 498.
	long := strings.Repeat("€", 400)
	got := preview(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 498, len(got))
}
