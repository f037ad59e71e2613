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
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamband/setlist-tools/internal/store"
)

func TestGeneratePredictionEmail(t *testing.T) {
	songs := []store.StoredPrediction{
		{SongName: "Madhuvan", SlotType: "encore", Confidence: 0.95, Rank: 1, Reasoning: "known encore closer"},
		{SongName: "Hot Tea", SlotType: "rotation_candidate", Confidence: 0.80, Rank: 2},
	}

	subject, body := generatePredictionEmail("Goose", "2025-07-19", songs)

	if subject != "Setlist prediction: Goose on 2025-07-19" {
		t.Errorf("unexpected subject: %q", subject)
	}
	for _, want := range []string{"Madhuvan", "95.0%", "encore", "known encore closer", "Hot Tea", "80.0%"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestSendPredictionEmailNoStoredRun(t *testing.T) {
	config := SendEmailConfig{
		DbPath:    filepath.Join(t.TempDir(), "setlists.db"),
		Band:      "Goose",
		Algorithm: "goldilocks_v9.0",
		ShowDate:  "2025-07-19",
		From:      "reports@example.com",
		To:        "fan@example.com",
		DryRun:    true,
	}
	err := sendPredictionEmail(config)
	if err == nil {
		t.Fatal("expected an error with no stored prediction")
	}
	if !strings.Contains(err.Error(), "predict --save") {
		t.Errorf("error should point at predict --save, got: %v", err)
	}
}

func TestSendPredictionEmailDryRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "setlists.db")
	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("creating database: %v", err)
	}
	err = db.SavePrediction(store.PredictionImport{
		BandName:      "Goose",
		AlgorithmName: "goldilocks_v9.0",
		ShowDate:      "2025-07-19",
		Songs: []store.PredictedSongImport{
			{SongName: "Madhuvan", SlotType: "encore", Confidence: 0.95, Rank: 1},
		},
	})
	db.Close()
	if err != nil {
		t.Fatalf("saving prediction: %v", err)
	}

	config := SendEmailConfig{
		DbPath:    dbPath,
		Band:      "Goose",
		Algorithm: "goldilocks_v9.0",
		ShowDate:  "2025-07-19",
		From:      "reports@example.com",
		To:        "fan@example.com",
		DryRun:    true,
	}
	// Dry run must not require an API key.
	if err := sendPredictionEmail(config); err != nil {
		t.Fatalf("dry run: %v", err)
	}
}
