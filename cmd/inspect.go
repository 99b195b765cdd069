package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhentschel/anntab/corpus"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <subcorpus> <fname> <kind>",
	Short: "Inspects one table",
	Long:  `Loads a single table through its descriptor and prints a summary.`,
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(inspect(args[0], args[1], args[2]))
	},
}

func inspect(subName, fname, kind string) error {
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
	tbl, res, err := corpus.LoadTable(p, kind)
	if err != nil {
		return err
	}

	fmt.Printf("resource: %v\n", res.Name)
	fmt.Printf("path: %v\n", tbl.Path)
	fmt.Printf("rows: %v\n", tbl.NumRows())
	fmt.Printf("columns: %v\n", strings.Join(tbl.Header, ", "))
	for _, name := range tbl.Header {
		col, _ := tbl.Column(name)
		var nulls int
		for _, isNull := range col.Null {
			if isNull {
				nulls++
			}
		}
		fmt.Printf("  %v (%v): %v nulls\n", name, col.Field.Type, nulls)
	}
	return nil
}
