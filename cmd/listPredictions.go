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

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamband/setlist-tools/internal/store"
)

// listPredictionsCmd represents the list-predictions command
var listPredictionsCmd = &cobra.Command{
	Use:   "list-predictions",
	Short: "Lists stored prediction runs",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		err := listPredictions(viper.GetString("database"), viper.GetString("band"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listPredictionsCmd)
}

func listPredictions(dbPath, band string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	runs, err := db.ListPredictions(band)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Printf("No stored predictions for %s\n", band)
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Show Date", "Venue", "Algorithm", "Shows Analyzed", "Generated"})
	for _, r := range runs {
		table.Append([]string{
			r.ShowDate,
			r.VenueName,
			r.AlgorithmName,
			strconv.Itoa(r.TotalShowsAnalyzed),
			r.GeneratedAt.Format("2006-01-02"),
		})
	}
	table.Render()
	return nil
}
