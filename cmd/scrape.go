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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamband/setlist-tools/internal/elgoose"
	"github.com/jamband/setlist-tools/internal/store"
)

type ScrapeConfig struct {
	DbPath  string
	Band    string
	BaseURL string
	Limit   int
}

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetches setlists from elgoose.net",
	Long:  `Stores shows and their setlists in a local SQLite database. Already-ingested shows are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := ScrapeConfig{
			DbPath:  viper.GetString("database"),
			Band:    viper.GetString("band"),
			BaseURL: viper.GetString("source"),
			Limit:   viper.GetInt("limit"),
		}
		err := scrape(context.Background(), config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	var limit int
	scrapeCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of shows to ingest")
	viper.BindPFlag("limit", scrapeCmd.Flags().Lookup("limit"))

	var source string
	scrapeCmd.Flags().StringVar(&source, "source", elgoose.DefaultBaseURL, "Setlist archive base URL")
	viper.BindPFlag("source", scrapeCmd.Flags().Lookup("source"))
}

func scrape(ctx context.Context, config ScrapeConfig) error {
	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	client := elgoose.NewClient(config.BaseURL)
	fmt.Printf("Fetching up to %d shows from %s\n", config.Limit, config.BaseURL)
	shows, err := client.FetchSetlists(ctx, config.Band, config.Limit)
	if err != nil {
		return fmt.Errorf("scraping setlists: %w", err)
	}

	added := 0
	for _, show := range shows {
		ok, err := db.AddShow(show)
		if err != nil {
			return fmt.Errorf("storing show %s: %w", show.ShowDate, err)
		}
		if !ok {
			fmt.Printf("Show %s at %s already ingested, skipping\n", show.ShowDate, show.VenueName)
			continue
		}
		fmt.Printf("Ingested %s at %s (%d songs)\n", show.ShowDate, show.VenueName, len(show.Entries))
		added++
	}

	total, err := db.CountShows(config.Band)
	if err != nil {
		return err
	}
	fmt.Printf("Done: %d new shows, %d total for %s\n", added, total, config.Band)
	return nil
}
