package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhentschel/anntab/constants"
	"github.com/jhentschel/anntab/corpus"
	"github.com/jhentschel/anntab/model"
	"github.com/jhentschel/anntab/util"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a corpus report",
	Long:  `Creates a corpus report`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(report())
	},
}

type subcorpusReport struct {
	numPieces int
	numScores int
	numTables map[string]int
	numRows   map[string]int
}

func analyzeSubcorpus(sub *model.Subcorpus) subcorpusReport {
	r := subcorpusReport{
		numPieces: len(sub.Pieces),
		numTables: make(map[string]int),
		numRows:   make(map[string]int),
	}
	for _, p := range sub.Pieces {
		if p.ScorePath != "" {
			r.numScores++
		}
		for _, kind := range constants.TableKinds {
			if _, ok := p.Tables[kind]; !ok {
				continue
			}
			r.numTables[kind]++
			tbl, _, err := corpus.LoadTable(p, kind)
			if err != nil {
				continue
			}
			r.numRows[kind] += tbl.NumRows()
		}
	}
	return r
}

func report() error {
	c, err := loadCorpus(corpusDir)
	if err != nil {
		return err
	}

	var totalPieces, totalScores int
	rowCounts := make(map[string][]int)
	for _, sub := range c.Subcorpora {
		r := analyzeSubcorpus(sub)
		totalPieces += r.numPieces
		totalScores += r.numScores
		fmt.Printf("%v:\n", sub.Name)
		fmt.Printf("  pieces: %v\n", r.numPieces)
		fmt.Printf("  scores: %v\n", r.numScores)
		for _, kind := range constants.TableKinds {
			fmt.Printf("  %v: %v tables, %v rows\n", kind, r.numTables[kind], r.numRows[kind])
			rowCounts[kind] = append(rowCounts[kind], r.numRows[kind])
		}
	}

	fmt.Printf("total pieces: %v\n", totalPieces)
	fmt.Printf("total scores: %v\n", totalScores)
	for _, kind := range constants.TableKinds {
		fmt.Printf("total %v rows: %v\n", kind, util.Sum(rowCounts[kind]))
	}
	return nil
}
