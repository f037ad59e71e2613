/*
Copyright 2025 The setlist-tools Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamband/setlist-tools/internal/analysis"
	"github.com/jamband/setlist-tools/internal/store"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <date>",
	Short: "Scores a stored prediction against the actual setlist",
	Long:  `Compares a stored prediction run with the setlist that was actually played on the given date.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := evaluate(viper.GetString("database"), viper.GetString("band"),
			viper.GetString("algorithm"), args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	var algorithm string
	evaluateCmd.Flags().StringVar(&algorithm, "algorithm", "goldilocks_v9.0", "Algorithm name of the stored run")
	viper.BindPFlag("algorithm", evaluateCmd.Flags().Lookup("algorithm"))
}

func evaluate(dbPath, band, algorithm, showDate string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ev, err := analysis.EvaluatePrediction(db, band, algorithm, showDate)
	if err != nil {
		return err
	}

	fmt.Printf("%s prediction for %s on %s:\n", ev.AlgorithmName, ev.BandName, ev.ShowDate)
	fmt.Printf("  Hits: %d of %d predicted (%.1f%%), %d songs played\n",
		ev.Hits, ev.TotalPredicted, ev.HitRate*100, ev.TotalActual)
	fmt.Printf("  Opener hit: %v, encore hit: %v\n", ev.OpenerHit, ev.EncoreHit)
	if ev.HighConfidenceTotal > 0 {
		fmt.Printf("  High-confidence hits: %d of %d (%.1f%%)\n",
			ev.HighConfidenceHits, ev.HighConfidenceTotal, ev.HighConfidenceRate*100)
	}
	fmt.Printf("  Average confidence: %.1f%%\n", ev.AvgConfidence*100)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Rank", "Song", "Confidence", "Slot", "Played", "Actual Set"})
	for _, song := range ev.Songs {
		table.Append([]string{
			strconv.Itoa(song.Rank),
			song.SongName,
			fmt.Sprintf("%.1f%%", song.Confidence*100),
			song.SlotType,
			strconv.FormatBool(song.Played),
			song.ActualSet,
		})
	}
	table.Render()

	if len(ev.Missed) > 0 {
		fmt.Printf("Not predicted: %s\n", strings.Join(ev.Missed, ", "))
	}
	return nil
}
