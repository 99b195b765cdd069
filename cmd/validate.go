package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhentschel/anntab/config"
	"github.com/jhentschel/anntab/corpus"
	"github.com/jhentschel/anntab/model"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Checks a corpus against its descriptors",
	Long: `Loads every table of every piece against its JSON descriptor and
reports all integrity problems found. Exits non-zero if any problem has
error severity.`,
	Run: func(cmd *cobra.Command, args []string) {
		report, err := RunValidate(corpusDir)
		cobra.CheckErr(err)
		printReport(report)
		if report.Errors() > 0 {
			os.Exit(1)
		}
	},
}

// RunValidate scans and validates the corpus under dir.
func RunValidate(dir string) (*model.Report, error) {
	c, err := loadCorpus(dir)
	if err != nil {
		return nil, err
	}
	return corpus.Validate(c), nil
}

func loadCorpus(dir string) (*model.Corpus, error) {
	prof, err := config.LoadProfile(dir)
	if err != nil {
		return nil, err
	}
	return corpus.Scan(dir, prof)
}

func printReport(report *model.Report) {
	for _, p := range report.Problems {
		fmt.Println(p.String())
	}
	fmt.Printf("%v errors, %v warnings\n", report.Errors(), report.Warnings())
}
