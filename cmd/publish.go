package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhentschel/anntab/config"
	"github.com/jhentschel/anntab/logger"
	"github.com/jhentschel/anntab/release"
)

var publishTag string

func init() {
	publishCmd.Flags().StringVarP(&publishTag, "tag", "t", "", "release tag (required)")
	publishCmd.MarkFlagRequired("tag")
	rootCmd.AddCommand(publishCmd)
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publishes a release archive",
	Long: `Validates the corpus, zips it and uploads the archive with its
manifest to the release bucket. An existing tag is refused.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(publish())
	},
}

func publish() error {
	report, err := RunValidate(corpusDir)
	if err != nil {
		return err
	}
	if report.Errors() > 0 {
		printReport(report)
		return fmt.Errorf("corpus has %v errors; refusing to publish", report.Errors())
	}

	prof, err := config.LoadProfile(corpusDir)
	if err != nil {
		return err
	}

	tmp, err := os.MkdirTemp("", "anntab-release")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	zipPath := filepath.Join(tmp, publishTag+".zip")
	count, err := release.BuildArchive(corpusDir, zipPath, prof)
	if err != nil {
		return err
	}
	logger.Info("built release archive",
		logger.String("tag", publishTag), logger.Int("files", count))

	cfg := config.Load()
	pub, err := release.NewPublisher(cfg.ReleaseBucket, cfg.AWSRegion)
	if err != nil {
		return err
	}
	m := release.NewManifest(publishTag, filepath.Base(zipPath), count)
	if err := pub.Publish(zipPath, m); err != nil {
		return err
	}
	logger.Info("published release",
		logger.String("tag", publishTag), logger.String("build_id", m.BuildID))
	return nil
}
