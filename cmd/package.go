package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhentschel/anntab/datapackage"
	"github.com/jhentschel/anntab/logger"
)

var (
	packageOut   string
	packageName  string
	packageTitle string
	packageZip   string
)

func init() {
	packageCmd.Flags().StringVarP(&packageOut, "out", "o", "datapackage", "output directory")
	packageCmd.Flags().StringVar(&packageName, "name", "corpus", "package name")
	packageCmd.Flags().StringVar(&packageTitle, "title", "", "package title")
	packageCmd.Flags().StringVar(&packageZip, "zip", "", "also bundle the package into this ZIP")
	rootCmd.AddCommand(packageCmd)
}

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Builds the aggregate datapackage",
	Long: `Concatenates each subcorpus's tables per kind, writes the
resulting resources with their descriptors and the datapackage.json
manifest into the output directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(buildPackage())
	},
}

func buildPackage() error {
	c, err := loadCorpus(corpusDir)
	if err != nil {
		return err
	}

	meta := datapackage.Meta{Name: packageName, Title: packageTitle}
	pkg, err := datapackage.Build(c, packageOut, meta)
	if err != nil {
		return err
	}
	logger.Info("wrote datapackage",
		logger.String("dir", packageOut), logger.Int("resources", len(pkg.Resources)))

	if packageZip == "" {
		return nil
	}
	if err := datapackage.WriteZip(pkg, packageOut, packageZip); err != nil {
		return err
	}
	if err := datapackage.VerifyZip(packageZip); err != nil {
		return err
	}
	logger.Info("wrote package archive", logger.String("path", filepath.Clean(packageZip)))
	return nil
}
