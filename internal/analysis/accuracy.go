// Package analysis scores stored prediction runs against the setlists
// that were actually played.
package analysis

import (
	"fmt"
	"strings"

	"github.com/jamband/setlist-tools/internal/store"
)

// SongResult is the per-song outcome of an evaluation.
type SongResult struct {
	SongName   string
	SlotType   string
	Confidence float64
	Rank       int
	Played     bool
	ActualSet  string // set the song actually landed in, when played
}

// Evaluation summarizes how a prediction run fared.
type Evaluation struct {
	BandName      string
	AlgorithmName string
	ShowDate      string

	TotalPredicted int
	TotalActual    int
	Hits           int
	HitRate        float64 // hits / predicted

	OpenerHit bool // a predicted opener actually opened the show
	EncoreHit bool // a predicted encore song actually landed in the encore

	HighConfidenceTotal int // predictions above the high-confidence bar
	HighConfidenceHits  int
	HighConfidenceRate  float64

	AvgConfidence float64

	Songs  []SongResult
	Missed []string // played songs the run never predicted
}

// highConfidenceBar separates the run's strong claims from its hedges.
const highConfidenceBar = 0.7

// EvaluatePrediction compares a stored run against the stored setlist
// for the same band and date. Song matching is case-insensitive.
func EvaluatePrediction(db *store.Store, band, algorithm, showDate string) (*Evaluation, error) {
	predicted, err := db.GetPredictedSongs(band, algorithm, showDate)
	if err != nil {
		return nil, fmt.Errorf("loading prediction: %w", err)
	}
	if len(predicted) == 0 {
		return nil, fmt.Errorf("no stored %s prediction for %s on %s", algorithm, band, showDate)
	}

	actual, err := db.GetSetlist(band, showDate)
	if err != nil {
		return nil, fmt.Errorf("loading setlist: %w", err)
	}
	if len(actual) == 0 {
		return nil, fmt.Errorf("no stored setlist for %s on %s", band, showDate)
	}

	played := make(map[string]store.SetlistSong, len(actual))
	for _, song := range actual {
		key := strings.ToLower(song.SongName)
		if _, ok := played[key]; !ok {
			played[key] = song
		}
	}

	ev := &Evaluation{
		BandName:       band,
		AlgorithmName:  algorithm,
		ShowDate:       showDate,
		TotalPredicted: len(predicted),
		TotalActual:    len(actual),
	}

	var confidenceSum float64
	hit := make(map[string]bool)
	for _, p := range predicted {
		confidenceSum += p.Confidence

		result := SongResult{
			SongName:   p.SongName,
			SlotType:   p.SlotType,
			Confidence: p.Confidence,
			Rank:       p.Rank,
		}
		if p.Confidence > highConfidenceBar {
			ev.HighConfidenceTotal++
		}

		key := strings.ToLower(p.SongName)
		if song, ok := played[key]; ok {
			result.Played = true
			result.ActualSet = song.SetType
			hit[key] = true
			ev.Hits++
			if p.Confidence > highConfidenceBar {
				ev.HighConfidenceHits++
			}
			if p.SlotType == "opener" && opened(song) {
				ev.OpenerHit = true
			}
			if p.SlotType == "encore" && song.SetType == "Encore" {
				ev.EncoreHit = true
			}
		}
		ev.Songs = append(ev.Songs, result)
	}

	missed := make(map[string]bool)
	for _, song := range actual {
		key := strings.ToLower(song.SongName)
		if !hit[key] && !missed[key] {
			missed[key] = true
			ev.Missed = append(ev.Missed, song.SongName)
		}
	}

	ev.HitRate = float64(ev.Hits) / float64(ev.TotalPredicted)
	ev.AvgConfidence = confidenceSum / float64(ev.TotalPredicted)
	if ev.HighConfidenceTotal > 0 {
		ev.HighConfidenceRate = float64(ev.HighConfidenceHits) / float64(ev.HighConfidenceTotal)
	}
	return ev, nil
}

func opened(song store.SetlistSong) bool {
	return song.SetPosition == 1 && (song.SetType == "Set 1" || song.SetType == "One Set")
}
