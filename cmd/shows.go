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

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamband/setlist-tools/internal/store"
)

// showsCmd represents the shows command
var showsCmd = &cobra.Command{
	Use:   "shows [from] [to (optional)]",
	Short: "Lists ingested shows",
	Long:  `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printShows(viper.GetString("database"), viper.GetString("band"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(showsCmd)
}

func printShows(dbPath, band string, args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	shows, err := db.GetShows(band, start, end)
	if err != nil {
		return err
	}
	if len(shows) == 0 {
		fmt.Printf("No shows for %s between %s and %s\n",
			band, start.Format("2006-01-02"), end.Format("2006-01-02"))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Date", "Venue", "City", "State", "Tour"})
	for _, sh := range shows {
		table.Append([]string{sh.ShowDate, sh.VenueName, sh.VenueCity, sh.VenueState, sh.TourName})
	}
	table.Render()
	return nil
}
