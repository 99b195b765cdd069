package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhentschel/anntab/constants"
	"github.com/jhentschel/anntab/logger"
	"github.com/jhentschel/anntab/metadata"
)

var concatReadme string

func init() {
	concatCmd.Flags().StringVar(&concatReadme, "readme", "", "README file to splice the overview into")
	rootCmd.AddCommand(concatCmd)
}

var concatCmd = &cobra.Command{
	Use:   "concat",
	Short: "Concatenates subcorpus metadata",
	Long: `Merges every subcorpus metadata.tsv into one table with a leading
corpus column and writes it to the corpus root. With --readme, also renders
the overview tables and splices them into the README.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(concat())
	},
}

func concat() error {
	c, err := loadCorpus(corpusDir)
	if err != nil {
		return err
	}
	t, err := metadata.Concat(c)
	if err != nil {
		return err
	}

	out := filepath.Join(corpusDir, constants.ConcatenatedMetadata)
	if err := t.WriteTSV(out); err != nil {
		return err
	}
	logger.Info("wrote concatenated metadata",
		logger.String("path", out), logger.Int("rows", len(t.Rows)))

	if concatReadme != "" {
		overview := metadata.Overview(t)
		if err := metadata.SpliceReadme(concatReadme, overview); err != nil {
			return err
		}
		logger.Info("updated README overview", logger.String("path", concatReadme))
	}
	return nil
}
