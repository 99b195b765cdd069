package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhentschel/anntab/constants"
	"github.com/jhentschel/anntab/corpus"
	"github.com/jhentschel/anntab/logger"
	"github.com/jhentschel/anntab/midiexport"
)

var exportOut string

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output SMF path (default <fname>.mid)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <subcorpus> <fname>",
	Short: "Exports a piece's notes table as MIDI",
	Long: `Renders the note events of one piece into a standard MIDI file,
using the measures table to resolve onsets to absolute time.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(export(args[0], args[1]))
	},
}

func export(subName, fname string) error {
	c, err := loadCorpus(corpusDir)
	if err != nil {
		return err
	}
	sub := c.Subcorpus(subName)
	if sub == nil {
		return fmt.Errorf("no subcorpus %v", subName)
	}
	p := sub.Piece(fname)
	if p == nil {
		return fmt.Errorf("no piece %v in %v", fname, subName)
	}

	notes, _, err := corpus.LoadTable(p, constants.KindNotes)
	if err != nil {
		return err
	}
	measures, _, err := corpus.LoadTable(p, constants.KindMeasures)
	if err != nil {
		return err
	}

	s, err := midiexport.Render(notes, measures, fname)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = fname + ".mid"
	}
	if err := midiexport.WriteFile(s, out); err != nil {
		return err
	}
	logger.Info("exported MIDI", logger.String("piece", fname), logger.String("path", out))
	return nil
}
