package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jhentschel/anntab/config"
)

var corpusDir string

var rootCmd = &cobra.Command{
	Use:   "anntab",
	Short: "Tools for corpora of annotated scores",
	Long: `anntab validates, concatenates, packages and serves corpora of
annotated scores and their derived note, measure, chord and harmony tables.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		cfg.InitLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&corpusDir, "dir", "d", ".", "corpus root directory")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
