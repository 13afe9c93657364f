package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agreemshield/agreemshield/internal/pipeline/risk"
)

type trainOptions struct {
	dataPath string
	outPath  string
}

func newTrainCommand(root *RootOptions) *cobra.Command {
	opts := &trainOptions{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the risk classification model from labeled clauses",
		Long: `Train the naive Bayes risk model from a CSV of labeled clauses
(columns: text, clause_type, risk_level) and write it to disk. The
resulting model file is what the server and the analyze command load.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataPath, "data", "", "path to the labeled training CSV")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "path to write the trained model")

	return cmd
}

func runTrain(cmd *cobra.Command, root *RootOptions, opts *trainOptions) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	log, err := buildLogger(root)
	if err != nil {
		return err
	}

	dataPath := opts.dataPath
	if dataPath == "" {
		dataPath = cfg.Pipeline.TrainingDataPath
	}
	if dataPath == "" {
		return fmt.Errorf("no training data: pass --data or set pipeline.training_data_path")
	}
	outPath := opts.outPath
	if outPath == "" {
		outPath = filepath.Join(cfg.Pipeline.ModelDir, risk.ModelFileName)
	}

	report, err := risk.NewTrainer(log).TrainFromCSV(dataPath, outPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "model written to %s\n", outPath)
	return printJSON(cmd.OutOrStdout(), report)
}
