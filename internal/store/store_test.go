package store

import (
	"math"
	"path/filepath"
	"testing"
	"time"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func addTestShow(t *testing.T, s *Store, date, venue string, entries []EntryImport) {
	t.Helper()
	added, err := s.AddShow(ShowImport{
		BandName:   "Goose",
		ShowDate:   date,
		VenueName:  venue,
		VenueCity:  "Cleveland",
		VenueState: "OH",
		Entries:    entries,
	})
	if err != nil {
		t.Fatalf("adding show %s: %v", date, err)
	}
	if !added {
		t.Fatalf("show %s unexpectedly already present", date)
	}
}

func TestShowID(t *testing.T) {
	got := ShowID("Goose", "2025-07-19", "Jacobs Pavilion at Nautica")
	want := "goose-2025-07-19-jacobs-pavilion-at-nautica"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = ShowID("Goose", "2024-06-01", "Pete's Candy Store, Brooklyn & Queens")
	want = "goose-2024-06-01-petes-candy-store-brooklyn-and-queens"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAddShowIdempotent(t *testing.T) {
	s := createTestStore(t)
	show := ShowImport{
		BandName:  "Goose",
		ShowDate:  "2025-07-19",
		VenueName: "Jacobs Pavilion at Nautica",
		Entries: []EntryImport{
			{SongName: "Flodown", SetType: "Set 1", SetPosition: 1},
			{SongName: "Madhuvan", SetType: "Encore", SetPosition: 1, IsJam: true},
		},
	}

	added, err := s.AddShow(show)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if !added {
		t.Error("first insert should report added")
	}

	added, err = s.AddShow(show)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if added {
		t.Error("re-ingesting the same show should be a no-op")
	}

	count, err := s.CountShows("Goose")
	if err != nil {
		t.Fatalf("counting shows: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d shows, want 1", count)
	}

	setlist, err := s.GetSetlist("Goose", "2025-07-19")
	if err != nil {
		t.Fatalf("getting setlist: %v", err)
	}
	if len(setlist) != 2 {
		t.Errorf("got %d setlist songs, want 2", len(setlist))
	}
}

func TestGetShowsDateRange(t *testing.T) {
	s := createTestStore(t)
	addTestShow(t, s, "2025-06-01", "Venue A", nil)
	addTestShow(t, s, "2025-07-01", "Venue B", nil)
	addTestShow(t, s, "2025-08-01", "Venue C", nil)

	start, _ := time.Parse("2006-01-02", "2025-06-15")
	end, _ := time.Parse("2006-01-02", "2025-08-01")

	shows, err := s.GetShows("Goose", start, end)
	if err != nil {
		t.Fatalf("getting shows: %v", err)
	}
	if len(shows) != 1 {
		t.Fatalf("got %d shows, want 1 (end date is exclusive)", len(shows))
	}
	if shows[0].VenueName != "Venue B" {
		t.Errorf("got %q, want Venue B", shows[0].VenueName)
	}
}

func TestGetLatestShowDate(t *testing.T) {
	s := createTestStore(t)

	date, err := s.GetLatestShowDate("Goose")
	if err != nil {
		t.Fatalf("empty warehouse: %v", err)
	}
	if date != "" {
		t.Errorf("empty warehouse should yield empty date, got %q", date)
	}

	addTestShow(t, s, "2025-06-01", "Venue A", nil)
	addTestShow(t, s, "2025-08-01", "Venue C", nil)

	date, err = s.GetLatestShowDate("Goose")
	if err != nil {
		t.Fatalf("getting latest date: %v", err)
	}
	if date != "2025-08-01" {
		t.Errorf("got %q, want 2025-08-01", date)
	}
}

func TestFetchSongStats(t *testing.T) {
	s := createTestStore(t)
	addTestShow(t, s, "2025-01-01", "Venue A", []EntryImport{
		{SongName: "Hot Tea", SetType: "Set 1", SetPosition: 1},
		{SongName: "Madhuvan", SetType: "Encore", SetPosition: 1, IsJam: true},
	})
	addTestShow(t, s, "2025-01-11", "Venue B", []EntryImport{
		{SongName: "Hot Tea", SetType: "Set 2", SetPosition: 3},
		{SongName: "Arcadia", SetType: "Set 1", SetPosition: 1},
		{SongName: "Electric Avenue", SetType: "Set 1", SetPosition: 2, IsCover: true, OriginalArtist: "Eddy Grant"},
	})
	addTestShow(t, s, "2025-01-21", "Venue C", []EntryImport{
		{SongName: "Hot Tea", SetType: "One Set", SetPosition: 1},
	})

	stats, total, err := s.FetchSongStats("Goose", time.Time{})
	if err != nil {
		t.Fatalf("fetching stats: %v", err)
	}
	if total != 3 {
		t.Fatalf("got %d total shows, want 3", total)
	}
	if len(stats) != 4 {
		t.Fatalf("got %d songs, want 4", len(stats))
	}

	// Descending plays, so Hot Tea leads.
	tea := stats[0]
	if tea.SongName != "Hot Tea" || tea.TotalPlays != 3 {
		t.Fatalf("expected Hot Tea with 3 plays first, got %+v", tea)
	}
	if tea.Frequency != 1.0 {
		t.Errorf("Hot Tea frequency = %v, want 1.0", tea.Frequency)
	}
	// Opened shows on 01-01 (Set 1 pos 1) and 01-21 (One Set pos 1).
	if math.Abs(tea.OpenerRate-2.0/3.0) > 1e-9 {
		t.Errorf("Hot Tea opener rate = %v, want 2/3", tea.OpenerRate)
	}
	if tea.EncoreRate != 0 {
		t.Errorf("Hot Tea encore rate = %v, want 0", tea.EncoreRate)
	}
	// 20-day span over 2 gaps.
	if math.Abs(tea.AvgGapDays-10) > 1e-9 {
		t.Errorf("Hot Tea avg gap = %v, want 10", tea.AvgGapDays)
	}

	for _, st := range stats {
		if st.SongName == "Electric Avenue" {
			if !st.IsCover || st.OriginalArtist != "Eddy Grant" {
				t.Errorf("cover fields not aggregated: %+v", st)
			}
			continue
		}
		if st.SongName != "Madhuvan" {
			continue
		}
		if st.EncoreRate != 1.0 {
			t.Errorf("Madhuvan encore rate = %v, want 1.0", st.EncoreRate)
		}
		if st.JamCount != 1 {
			t.Errorf("Madhuvan jam count = %d, want 1", st.JamCount)
		}
		if st.AvgGapDays != 0 {
			t.Errorf("single play should have no average gap, got %v", st.AvgGapDays)
		}
	}
}

func TestFetchSongStatsCutoff(t *testing.T) {
	s := createTestStore(t)
	addTestShow(t, s, "2025-01-01", "Venue A", []EntryImport{
		{SongName: "Hot Tea", SetType: "Set 1", SetPosition: 1},
	})
	addTestShow(t, s, "2025-07-19", "Venue B", []EntryImport{
		{SongName: "Hot Tea", SetType: "Set 1", SetPosition: 1},
		{SongName: "Arcadia", SetType: "Set 2", SetPosition: 1},
	})

	// The cutoff date itself is excluded, so a prediction for a show
	// never sees that show's own setlist.
	asOf, _ := time.Parse("2006-01-02", "2025-07-19")
	stats, total, err := s.FetchSongStats("Goose", asOf)
	if err != nil {
		t.Fatalf("fetching stats: %v", err)
	}
	if total != 1 {
		t.Errorf("got %d shows before cutoff, want 1", total)
	}
	if len(stats) != 1 || stats[0].SongName != "Hot Tea" || stats[0].TotalPlays != 1 {
		t.Errorf("unexpected stats before cutoff: %+v", stats)
	}
}

func TestSavePredictionReplacesPreviousRun(t *testing.T) {
	s := createTestStore(t)
	run := PredictionImport{
		BandName:      "Goose",
		AlgorithmName: "goldilocks_v9.0",
		ShowDate:      "2025-07-19",
		VenueName:     "Jacobs Pavilion at Nautica",
		Songs: []PredictedSongImport{
			{SongName: "Madhuvan", SlotType: "encore", Confidence: 0.95, Rank: 1, Reasoning: []string{"a", "b"}},
			{SongName: "Hot Tea", SlotType: "rotation_candidate", Confidence: 0.80, Rank: 2},
		},
	}
	if err := s.SavePrediction(run); err != nil {
		t.Fatalf("first save: %v", err)
	}

	run.Songs = run.Songs[:1]
	if err := s.SavePrediction(run); err != nil {
		t.Fatalf("second save: %v", err)
	}

	runs, err := s.ListPredictions("Goose")
	if err != nil {
		t.Fatalf("listing predictions: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1 after replacement", len(runs))
	}

	songs, err := s.GetPredictedSongs("Goose", "goldilocks_v9.0", "2025-07-19")
	if err != nil {
		t.Fatalf("getting predicted songs: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("got %d songs, want 1 after replacement", len(songs))
	}
	if songs[0].SongName != "Madhuvan" || songs[0].Rank != 1 {
		t.Errorf("unexpected stored song: %+v", songs[0])
	}
	if songs[0].Reasoning != "a; b" {
		t.Errorf("reasoning = %q, want joined string", songs[0].Reasoning)
	}
}

func TestGetPredictedSongsOrderedByRank(t *testing.T) {
	s := createTestStore(t)
	err := s.SavePrediction(PredictionImport{
		BandName:      "Goose",
		AlgorithmName: "goldilocks_v9.0",
		ShowDate:      "2025-07-19",
		Songs: []PredictedSongImport{
			{SongName: "Third", Confidence: 0.5, Rank: 3},
			{SongName: "First", Confidence: 0.9, Rank: 1},
			{SongName: "Second", Confidence: 0.7, Rank: 2},
		},
	})
	if err != nil {
		t.Fatalf("saving: %v", err)
	}

	songs, err := s.GetPredictedSongs("Goose", "goldilocks_v9.0", "2025-07-19")
	if err != nil {
		t.Fatalf("getting predicted songs: %v", err)
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if songs[i].SongName != want {
			t.Errorf("rank %d is %q, want %q", i+1, songs[i].SongName, want)
		}
	}
}

func TestReportSubscriptions(t *testing.T) {
	s := createTestStore(t)

	if err := s.AddReport("fan@example.com", "Goose"); err != nil {
		t.Fatalf("adding report: %v", err)
	}
	// Re-subscribing updates the band instead of failing.
	if err := s.AddReport("fan@example.com", "Grateful Dead"); err != nil {
		t.Fatalf("re-adding report: %v", err)
	}

	reports, err := s.ListReports()
	if err != nil {
		t.Fatalf("listing reports: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	if reports[0].Email != "fan@example.com" || reports[0].BandName != "Grateful Dead" {
		t.Errorf("unexpected report: %+v", reports[0])
	}
	if !reports[0].Sent.IsZero() {
		t.Errorf("unsent report should have zero sent time, got %v", reports[0].Sent)
	}

	sent := time.Date(2025, 7, 19, 12, 0, 0, 0, time.UTC)
	if err := s.MarkReportSent("fan@example.com", sent); err != nil {
		t.Fatalf("marking sent: %v", err)
	}
	reports, err = s.ListReports()
	if err != nil {
		t.Fatalf("listing reports: %v", err)
	}
	if !reports[0].Sent.Equal(sent) {
		t.Errorf("sent = %v, want %v", reports[0].Sent, sent)
	}

	if err := s.DeleteReport("fan@example.com"); err != nil {
		t.Fatalf("deleting report: %v", err)
	}
	if err := s.DeleteReport("fan@example.com"); err == nil {
		t.Error("deleting a missing subscription should error")
	}
}
