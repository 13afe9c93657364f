package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agreemshield/agreemshield/internal/pipeline/risk"
)

func writeTrainingCSV(t *testing.T) string {
	t.Helper()

	rows := map[string][]string{
		"High": {
			"full ratchet anti-dilution with no carve-out for any issuance",
			"investors designate majority of board and control decisions",
			"three times participating liquidation preference on proceeds",
			"forced to sell shares at any price without minimum threshold",
			"no acceleration of vesting and repurchase of unvested shares",
		},
		"Medium": {
			"weighted average anti-dilution protection applies on down rounds",
			"standard four year vesting schedule with one year cliff",
			"board observer seat granted to lead investor",
			"drag along subject to price floor and founder approval",
			"single trigger acceleration on change of control only",
		},
		"Low": {
			"quarterly financial statements delivered to major investors",
			"pro rata participation rights in subsequent financings",
			"customary information and inspection rights for holders",
			"non participating one times liquidation preference",
			"investor observer rights without voting power",
		},
	}

	var sb strings.Builder
	sb.WriteString("clause_text,clause_type,risk_level\n")
	for label, texts := range rows {
		for _, text := range texts {
			sb.WriteString("\"" + text + "\",General Clause," + label + "\n")
		}
	}

	path := filepath.Join(t.TempDir(), "train.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func TestTrainCommand_WritesModel(t *testing.T) {
	t.Parallel()

	csvPath := writeTrainingCSV(t)
	modelPath := filepath.Join(t.TempDir(), risk.ModelFileName)

	out, err := execute(t, "train", "--data", csvPath, "--out", modelPath)
	require.NoError(t, err)
	assert.Contains(t, out, "model written to")

	model, err := risk.LoadModel(modelPath)
	require.NoError(t, err)
	assert.NotEmpty(t, model.Vocab)
}

func TestTrainCommand_RequiresData(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "train")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no training data")
}
