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
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamband/setlist-tools/internal/store"
)

var songStatsNumber int

// songStatsCmd represents the song-stats command
var songStatsCmd = &cobra.Command{
	Use:   "song-stats",
	Short: "Shows per-song play statistics",
	Long:  `Prints play counts, frequency, opener/encore rates, and play gaps from the ingested history.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := printSongStats(viper.GetString("database"), viper.GetString("band"), songStatsNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(songStatsCmd)

	songStatsCmd.Flags().IntVarP(&songStatsNumber, "number", "n", 25, "number of songs to show")
}

func printSongStats(dbPath, band string, numToShow int) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	stats, totalShows, err := db.FetchSongStats(band, time.Time{})
	if err != nil {
		return err
	}
	if totalShows == 0 {
		return fmt.Errorf("no shows for %s - run scrape first", band)
	}

	if numToShow > 0 && len(stats) > numToShow {
		stats = stats[:numToShow]
	}

	fmt.Printf("Song statistics for %s over %d shows:\n", band, totalShows)
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Song", "Plays", "Frequency", "Opener", "Encore", "Avg Gap", "Last Played"})
	for _, st := range stats {
		table.Append([]string{
			st.SongName,
			strconv.Itoa(st.TotalPlays),
			fmt.Sprintf("%.1f%%", st.Frequency*100),
			fmt.Sprintf("%.1f%%", st.OpenerRate*100),
			fmt.Sprintf("%.1f%%", st.EncoreRate*100),
			fmt.Sprintf("%.0fd", st.AvgGapDays),
			st.LastPlayed,
		})
	}
	table.Render()
	return nil
}
