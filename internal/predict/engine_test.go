package predict

import (
	"math/rand"
	"reflect"
	"testing"
)

// testCatalog mirrors the shape of the real aggregated warehouse stats:
// a handful of high-frequency staples, a rotation middle, and deep cuts.
func testCatalog(t *testing.T) []SongCatalogEntry {
	t.Helper()
	return []SongCatalogEntry{
		{Name: "Hot Tea", Frequency: 0.267, OpenerRate: 0.015, EncoreRate: 0.079, TotalPlays: 138, AvgGapDays: 12},
		{Name: "Arcadia", Frequency: 0.258, OpenerRate: 0.012, EncoreRate: 0.050, TotalPlays: 133, AvgGapDays: 13},
		{Name: "Tumble", Frequency: 0.246, OpenerRate: 0.019, EncoreRate: 0.023, TotalPlays: 127, AvgGapDays: 14},
		{Name: "Madhuvan", Frequency: 0.242, OpenerRate: 0.017, EncoreRate: 0.35, TotalPlays: 125, AvgGapDays: 35},
		{Name: "All I Need", Frequency: 0.236, OpenerRate: 0.021, EncoreRate: 0.013, TotalPlays: 122, AvgGapDays: 15},
		{Name: "Yeti", Frequency: 0.231, OpenerRate: 0.029, EncoreRate: 0.020, TotalPlays: 119, AvgGapDays: 15},
		{Name: "Drive", Frequency: 0.219, OpenerRate: 0.22, EncoreRate: 0.016, TotalPlays: 113, AvgGapDays: 25},
		{Name: "Flodown", Frequency: 0.203, OpenerRate: 0.15, EncoreRate: 0.013, TotalPlays: 105, AvgGapDays: 18},
		{Name: "Creatures", Frequency: 0.200, OpenerRate: 0.017, EncoreRate: 0.020, TotalPlays: 103, AvgGapDays: 28},
		{Name: "Time to Flee", Frequency: 0.188, OpenerRate: 0.12, EncoreRate: 0.016, TotalPlays: 97, AvgGapDays: 30},
		{Name: "Butter Rum", Frequency: 0.182, OpenerRate: 0.025, EncoreRate: 0.09, TotalPlays: 94, AvgGapDays: 40},
		{Name: "Slow Ready", Frequency: 0.180, OpenerRate: 0.008, EncoreRate: 0.12, TotalPlays: 93, AvgGapDays: 20},
		{Name: "Arrow", Frequency: 0.174, OpenerRate: 0.019, EncoreRate: 0.020, TotalPlays: 90, AvgGapDays: 35},
		{Name: "Hungersite", Frequency: 0.145, OpenerRate: 0.012, EncoreRate: 0.026, TotalPlays: 75, AvgGapDays: 20},
		{Name: "White Lights", Frequency: 0.131, OpenerRate: 0.006, EncoreRate: 0.10, TotalPlays: 68, AvgGapDays: 42},
		{Name: "Borne", Frequency: 0.125, OpenerRate: 0.010, EncoreRate: 0.015, TotalPlays: 64, AvgGapDays: 30},
		{Name: "Into the Myst", Frequency: 0.116, OpenerRate: 0.012, EncoreRate: 0.016, TotalPlays: 60, AvgGapDays: 38},
		{Name: "Elmeg The Wise", Frequency: 0.110, OpenerRate: 0.010, EncoreRate: 0.013, TotalPlays: 57, AvgGapDays: 45},
		{Name: "Honeybee", Frequency: 0.078, OpenerRate: 0.15, EncoreRate: 0.008, TotalPlays: 40, AvgGapDays: 28},
		{Name: "Doobie Song", Frequency: 0.047, OpenerRate: 0.010, EncoreRate: 0.25, TotalPlays: 24, AvgGapDays: 25},
		{Name: "Electric Avenue", Frequency: 0.039, OpenerRate: 0.0, EncoreRate: 0.05, TotalPlays: 20, AvgGapDays: 60},
		{Name: "Mas Que Nada", Frequency: 0.043, OpenerRate: 0.0, EncoreRate: 0.0, TotalPlays: 22, AvgGapDays: 55},
		{Name: "The Labyrinth", Frequency: 0.021, OpenerRate: 0.08, EncoreRate: 0.08, TotalPlays: 11, AvgGapDays: 50},
		{Name: "Torero", Frequency: 0.008, OpenerRate: 0.12, EncoreRate: 0.05, TotalPlays: 4, AvgGapDays: 45},
	}
}

func testInput() ShowInput {
	return ShowInput{
		BandName:   "Goose",
		ShowDate:   "2025-07-19",
		VenueName:  "Jacobs Pavilion at Nautica",
		VenueCity:  "Cleveland",
		VenueState: "OH",
	}
}

func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	return New(DefaultConfig(), rand.New(rand.NewSource(seed)))
}

func TestPredictDeterministic(t *testing.T) {
	catalog := testCatalog(t)
	input := testInput()

	first := newTestEngine(t, 42).Predict(input, catalog)
	second := newTestEngine(t, 42).Predict(input, catalog)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed and input produced different outputs:\n%v\n%v", first, second)
	}
}

func TestPredictNoDuplicates(t *testing.T) {
	records := newTestEngine(t, 42).Predict(testInput(), testCatalog(t))

	seen := make(map[string]bool)
	for _, r := range records {
		if seen[r.SongName] {
			t.Errorf("duplicate song in output: %q", r.SongName)
		}
		seen[r.SongName] = true
	}
}

func TestPredictRanksDense(t *testing.T) {
	records := newTestEngine(t, 42).Predict(testInput(), testCatalog(t))

	if len(records) == 0 {
		t.Fatal("expected predictions")
	}
	for i, r := range records {
		if r.Rank != i+1 {
			t.Errorf("rank at index %d is %d, want %d", i, r.Rank, i+1)
		}
		if i > 0 && records[i-1].Confidence < r.Confidence {
			t.Errorf("confidence not descending at rank %d: %v then %v", r.Rank, records[i-1].Confidence, r.Confidence)
		}
	}
}

func TestPredictConfidenceBounded(t *testing.T) {
	records := newTestEngine(t, 42).Predict(testInput(), testCatalog(t))

	for _, r := range records {
		if r.Confidence < 0 || r.Confidence > 1 {
			t.Errorf("%q confidence %v outside [0, 1]", r.SongName, r.Confidence)
		}
	}
}

func TestPredictCapRespected(t *testing.T) {
	cfg := DefaultConfig()
	records := New(cfg, rand.New(rand.NewSource(7))).Predict(testInput(), testCatalog(t))

	if len(records) > cfg.MaxPredictions {
		t.Errorf("got %d predictions, cap is %d", len(records), cfg.MaxPredictions)
	}
}

func TestPredictEmptyCatalog(t *testing.T) {
	records := newTestEngine(t, 42).Predict(testInput(), nil)
	if len(records) != 0 {
		t.Errorf("empty catalog should yield no predictions, got %d", len(records))
	}
}

// A high encore-rate song at a summer amphitheater show lands in the
// encore slot near the top, boosted by the venue affinity and the epic
// energy match.
func TestPredictMadhuvanEncoreScenario(t *testing.T) {
	records := newTestEngine(t, 42).Predict(testInput(), testCatalog(t))

	var madhuvan *PredictionRecord
	for i := range records {
		if records[i].SongName == "Madhuvan" {
			madhuvan = &records[i]
			break
		}
	}
	if madhuvan == nil {
		t.Fatal("Madhuvan missing from predictions")
	}
	if madhuvan.SlotType != SlotEncore {
		t.Fatalf("Madhuvan slot = %q, want encore", madhuvan.SlotType)
	}
	if !hasReason(madhuvan.Reasoning, "favored at amphitheater venues") {
		t.Errorf("expected amphitheater affinity reasoning, got %v", madhuvan.Reasoning)
	}
	if !hasReason(madhuvan.Reasoning, "epic energy match") {
		t.Errorf("expected epic energy reasoning, got %v", madhuvan.Reasoning)
	}

	// Madhuvan should outrank every other encore pick.
	for _, r := range records {
		if r.SlotType == SlotEncore && r.Confidence > madhuvan.Confidence {
			t.Errorf("%q outranks Madhuvan among encores (%v > %v)", r.SongName, r.Confidence, madhuvan.Confidence)
		}
	}
}

// Two otherwise identical songs must keep catalog order across runs when
// their confidences tie exactly. LastPlayed is set so no jitter applies.
func TestPredictTieBreakStable(t *testing.T) {
	ctx := AnalyzeContext("2025-04-16", "Plain Room")
	lastPlayed := ctx.Date.AddDate(0, 0, -25)

	catalog := []SongCatalogEntry{
		{Name: "Aardvark", Frequency: 0.15, TotalPlays: 60, LastPlayed: lastPlayed},
		{Name: "Bobcat", Frequency: 0.15, TotalPlays: 60, LastPlayed: lastPlayed},
	}
	input := ShowInput{BandName: "Goose", ShowDate: "2025-04-16", VenueName: "Plain Room"}

	for seed := int64(0); seed < 5; seed++ {
		records := newTestEngine(t, seed).Predict(input, catalog)
		if len(records) != 2 {
			t.Fatalf("seed %d: got %d records, want 2", seed, len(records))
		}
		if records[0].Confidence != records[1].Confidence {
			t.Fatalf("seed %d: expected an exact tie, got %v and %v", seed, records[0].Confidence, records[1].Confidence)
		}
		if records[0].SongName != "Aardvark" || records[1].SongName != "Bobcat" {
			t.Errorf("seed %d: tie-break order changed: %q then %q", seed, records[0].SongName, records[1].SongName)
		}
	}
}

// A song claimed by the opener generator must not reappear as a
// separately scored rotation candidate.
func TestPredictSlotExclusivity(t *testing.T) {
	records := newTestEngine(t, 42).Predict(testInput(), testCatalog(t))

	slots := make(map[string]SlotType)
	for _, r := range records {
		if prev, ok := slots[r.SongName]; ok {
			t.Errorf("%q appears in both %q and %q slots", r.SongName, prev, r.SlotType)
		}
		slots[r.SongName] = r.SlotType
	}
}

func TestAggregateKeepsHighestConfidence(t *testing.T) {
	a := SongCatalogEntry{Name: "A"}
	b := SongCatalogEntry{Name: "B"}

	candidates := []Candidate{
		{Song: a, Slot: SlotOpener, Confidence: 0.70},
		{Song: b, Slot: SlotEncore, Confidence: 0.80},
		{Song: a, Slot: SlotRotation, Confidence: 0.90},
		{Song: b, Slot: SlotRotation, Confidence: 0.80}, // exact tie: first seen wins
	}

	out := aggregate(candidates)
	if len(out) != 2 {
		t.Fatalf("got %d survivors, want 2", len(out))
	}
	if out[0].Song.Name != "A" || out[0].Confidence != 0.90 || out[0].Slot != SlotRotation {
		t.Errorf("A should survive with the 0.90 rotation candidate, got %+v", out[0])
	}
	if out[1].Song.Name != "B" || out[1].Slot != SlotEncore {
		t.Errorf("B's tie should keep the first-seen encore candidate, got %+v", out[1])
	}
}

func TestSequenceCandidates(t *testing.T) {
	e := newTestEngine(t, 42)

	borne := SongCatalogEntry{Name: "Borne", Frequency: 0.125, TotalPlays: 64}
	hungersite := SongCatalogEntry{Name: "Hungersite", Frequency: 0.145, TotalPlays: 75}
	byName := map[string]SongCatalogEntry{
		"Borne":      borne,
		"Hungersite": hungersite,
	}

	chosen := []Candidate{{Song: borne, Slot: SlotRotation, Confidence: 0.7}}
	taken := map[string]bool{"Borne": true}

	follows := e.sequenceCandidates(chosen, byName, taken)
	if len(follows) != 1 {
		t.Fatalf("got %d sequence follows, want 1", len(follows))
	}
	f := follows[0]
	if f.Song.Name != "Hungersite" || f.Slot != SlotSequence {
		t.Errorf("unexpected follow candidate: %+v", f)
	}
	if f.Confidence != e.cfg.SequenceConfidence {
		t.Errorf("follow confidence = %v, want %v", f.Confidence, e.cfg.SequenceConfidence)
	}
	if !hasReason(f.Reasoning, "Borne -> Hungersite") {
		t.Errorf("expected sequence reasoning, got %v", f.Reasoning)
	}
	if !taken["Hungersite"] {
		t.Error("follow should be marked taken")
	}

	// A second pass must not emit the follower again.
	if again := e.sequenceCandidates(chosen, byName, taken); len(again) != 0 {
		t.Errorf("follower emitted twice: %+v", again)
	}
}

func TestPredictExcludedSongsNeverAppear(t *testing.T) {
	catalog := append(testCatalog(t),
		SongCatalogEntry{Name: "No Rain", Frequency: 0.30, OpenerRate: 0.50, TotalPlays: 24, AvgGapDays: 30},
		SongCatalogEntry{Name: "Pancakes", Frequency: 0.25, EncoreRate: 0.25, TotalPlays: 120, AvgGapDays: 18},
	)

	records := newTestEngine(t, 42).Predict(testInput(), catalog)
	for _, r := range records {
		if r.SongName == "No Rain" || r.SongName == "Pancakes" {
			t.Errorf("excluded song %q leaked into predictions", r.SongName)
		}
	}
}

func TestPredictFormatsMetadata(t *testing.T) {
	records := newTestEngine(t, 42).Predict(testInput(), testCatalog(t))

	for _, r := range records {
		if r.ShowDate != "2025-07-19" || r.BandName != "Goose" || r.VenueName != "Jacobs Pavilion at Nautica" {
			t.Errorf("show metadata not attached: %+v", r)
		}
		if r.AlgorithmVersion == "" {
			t.Error("missing algorithm version")
		}
		if r.DaysSincePlayed > 0 && r.LastPlayed == "" {
			t.Errorf("%q has a gap but no inferred last-played date", r.SongName)
		}
	}
}
