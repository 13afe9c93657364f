package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agreemshield/agreemshield/pkg/types/agreement"
)

const cliTermSheet = "SECTION 1. Liquidation Preference\n\n" +
	"The holders of Preferred shall receive a 3x participating liquidation preference on the distribution of proceeds.\n\n" +
	"SECTION 2. Anti-Dilution\n\n" +
	"Full ratchet anti-dilution protection shall apply with no carve-out for option pool increases.\n\n" +
	"SECTION 3. Information Rights\n\n" +
	"Quarterly unaudited financial statements shall be delivered to each major investor upon written request."

func TestAnalyzeCommand_EndToEnd(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "term_sheet.txt")
	require.NoError(t, os.WriteFile(path, []byte(cliTermSheet), 0o644))

	out, err := execute(t, "analyze", path,
		"--startup-type", "saas",
		"--funding-stage", "series-a")
	require.NoError(t, err)

	var dto agreement.AnalysisDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dto))

	assert.Equal(t, "term_sheet.txt", dto.Document.Filename)
	assert.Equal(t, "saas", dto.StartupType)
	assert.Equal(t, "series-a", dto.FundingStage)
	assert.NotEmpty(t, dto.Clauses)
	assert.NotEmpty(t, dto.RiskAssessment.OverallLevel)
	assert.NotEmpty(t, dto.Summary)
}

func TestAnalyzeCommand_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "analyze", filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestAnalyzeCommand_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "agreement.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("binary"), 0o644))

	_, err := execute(t, "analyze", path)
	require.Error(t, err)
}
