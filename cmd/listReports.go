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

// listReportsCmd represents the list-reports command
var listReportsCmd = &cobra.Command{
	Use:   "list-reports",
	Short: "Lists report subscriptions",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		err := listReports(viper.GetString("database"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listReportsCmd)
}

func listReports(dbPath string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	reports, err := db.ListReports()
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Println("No report subscriptions")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Email", "Band", "Last Sent"})
	for _, r := range reports {
		sent := "never"
		if !r.Sent.IsZero() {
			sent = r.Sent.Format("2006-01-02")
		}
		table.Append([]string{r.Email, r.BandName, sent})
	}
	table.Render()
	return nil
}
