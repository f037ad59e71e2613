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
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jamband/setlist-tools/internal/predict"
	"github.com/jamband/setlist-tools/internal/store"
)

type PredictConfig struct {
	DbPath     string
	Band       string
	ShowDate   string
	VenueName  string
	VenueCity  string
	VenueState string
	AsOf       string
	Seed       int64
	Save       bool
	AsYaml     bool
}

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict <date> <venue>",
	Short: "Predicts the setlist for an upcoming show",
	Long: `Runs the prediction heuristics over the ingested play history and
prints a ranked setlist prediction for the given show date and venue.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		config := PredictConfig{
			DbPath:     viper.GetString("database"),
			Band:       viper.GetString("band"),
			ShowDate:   args[0],
			VenueName:  strings.Join(args[1:], " "),
			VenueCity:  viper.GetString("city"),
			VenueState: viper.GetString("state"),
			AsOf:       viper.GetString("as_of"),
			Seed:       viper.GetInt64("seed"),
			Save:       viper.GetBool("save"),
			AsYaml:     viper.GetBool("yaml"),
		}
		err := runPredict(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)

	var seed int64
	predictCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for simulated play gaps (0 = time-based)")
	viper.BindPFlag("seed", predictCmd.Flags().Lookup("seed"))

	var save bool
	predictCmd.Flags().BoolVar(&save, "save", false, "Store the prediction run in the database")
	viper.BindPFlag("save", predictCmd.Flags().Lookup("save"))

	var asYaml bool
	predictCmd.Flags().BoolVar(&asYaml, "yaml", false, "Print the prediction as YAML instead of a table")
	viper.BindPFlag("yaml", predictCmd.Flags().Lookup("yaml"))

	var asOf string
	predictCmd.Flags().StringVar(&asOf, "as_of", "", "Only use history before this date (default: the show date)")
	viper.BindPFlag("as_of", predictCmd.Flags().Lookup("as_of"))

	var city, state string
	predictCmd.Flags().StringVar(&city, "city", "", "Venue city")
	viper.BindPFlag("city", predictCmd.Flags().Lookup("city"))
	predictCmd.Flags().StringVar(&state, "state", "", "Venue state")
	viper.BindPFlag("state", predictCmd.Flags().Lookup("state"))
}

func runPredict(config PredictConfig) error {
	if _, err := time.Parse("2006-01-02", config.ShowDate); err != nil {
		return fmt.Errorf("invalid show date %q (want yyyy-mm-dd)", config.ShowDate)
	}

	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// The engine must never see the show it is predicting.
	cutoff := config.AsOf
	if cutoff == "" {
		cutoff = config.ShowDate
	}
	asOf, err := time.Parse("2006-01-02", cutoff)
	if err != nil {
		return fmt.Errorf("invalid as_of date %q (want yyyy-mm-dd)", cutoff)
	}

	stats, totalShows, err := db.FetchSongStats(config.Band, asOf)
	if err != nil {
		return fmt.Errorf("building song catalog: %w", err)
	}
	if totalShows == 0 {
		return fmt.Errorf("no shows for %s before %s - run scrape first", config.Band, cutoff)
	}
	fmt.Printf("Analyzing %d shows and %d songs for %s\n", totalShows, len(stats), config.Band)

	var rng *rand.Rand
	if config.Seed != 0 {
		rng = rand.New(rand.NewSource(config.Seed))
	}
	engine := predict.New(predict.DefaultConfig(), rng)

	input := predict.ShowInput{
		BandName:   config.Band,
		ShowDate:   config.ShowDate,
		VenueName:  config.VenueName,
		VenueCity:  config.VenueCity,
		VenueState: config.VenueState,
	}
	records := engine.Predict(input, catalogFromStats(stats))
	if len(records) == 0 {
		return fmt.Errorf("no predictions produced for %s", config.ShowDate)
	}

	if config.AsYaml {
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		if err := encoder.Encode(records); err != nil {
			return fmt.Errorf("encoding prediction: %w", err)
		}
	} else {
		printPredictionTable(records)
	}

	if config.Save {
		err := db.SavePrediction(predictionImport(config, cutoff, totalShows, records))
		if err != nil {
			return fmt.Errorf("storing prediction: %w", err)
		}
		fmt.Printf("Stored %s prediction for %s on %s\n",
			records[0].AlgorithmVersion, config.Band, config.ShowDate)
	}
	return nil
}

// catalogFromStats converts warehouse aggregates into engine catalog
// entries, preserving the warehouse ordering.
func catalogFromStats(stats []store.SongStats) []predict.SongCatalogEntry {
	catalog := make([]predict.SongCatalogEntry, 0, len(stats))
	for _, st := range stats {
		entry := predict.SongCatalogEntry{
			Name:           st.SongName,
			Frequency:      st.Frequency,
			OpenerRate:     st.OpenerRate,
			EncoreRate:     st.EncoreRate,
			TotalPlays:     st.TotalPlays,
			AvgGapDays:     st.AvgGapDays,
			IsCover:        st.IsCover,
			OriginalArtist: st.OriginalArtist,
		}
		if last, err := time.Parse("2006-01-02", st.LastPlayed); err == nil {
			entry.LastPlayed = last
		}
		catalog = append(catalog, entry)
	}
	return catalog
}

func predictionImport(config PredictConfig, cutoff string, totalShows int, records []predict.PredictionRecord) store.PredictionImport {
	imp := store.PredictionImport{
		BandName:           config.Band,
		AlgorithmName:      records[0].AlgorithmVersion,
		ShowDate:           config.ShowDate,
		VenueName:          config.VenueName,
		VenueCity:          config.VenueCity,
		VenueState:         config.VenueState,
		DataThroughDate:    cutoff,
		TotalShowsAnalyzed: totalShows,
	}
	for _, r := range records {
		imp.Songs = append(imp.Songs, store.PredictedSongImport{
			SongName:   r.SongName,
			SlotType:   string(r.SlotType),
			Confidence: r.Confidence,
			Rank:       r.Rank,
			Reasoning:  r.Reasoning,
			TotalPlays: r.TotalPlays,
			LastPlayed: r.LastPlayed,
		})
	}
	return imp
}

func printPredictionTable(records []predict.PredictionRecord) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Rank", "Song", "Confidence", "Slot", "Reasoning"})
	for _, r := range records {
		table.Append([]string{
			strconv.Itoa(r.Rank),
			r.SongName,
			fmt.Sprintf("%.1f%%", r.Confidence*100),
			string(r.SlotType),
			strings.Join(r.Reasoning, "; "),
		})
	}
	table.Render()
}
