package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// ShowImport is one scraped show with its setlist, ready to store.
type ShowImport struct {
	BandName     string
	ShowDate     string // yyyy-mm-dd
	VenueName    string
	VenueCity    string
	VenueState   string
	VenueCountry string
	TourName     string
	SourceURL    string
	Verified     bool
	Entries      []EntryImport
}

// EntryImport is one song performance within a show.
type EntryImport struct {
	SongName         string
	SetType          string // "Set 1", "Set 2", "Encore", ...
	SetPosition      int
	TransitionsInto  string
	IsJam            bool
	IsTease          bool
	IsPartial        bool
	IsCover          bool
	OriginalArtist   string
	PerformanceNotes string
}

// ShowID builds the natural key used for a show row.
func ShowID(band, date, venue string) string {
	v := strings.ToLower(venue)
	v = strings.NewReplacer(" ", "-", "'", "", ",", "", "&", "and").Replace(v)
	return fmt.Sprintf("%s-%s-%s", strings.ToLower(band), date, v)
}

// AddShow inserts a show and its setlist entries transactionally.
// Re-ingesting the same show is a no-op, so repeated scrapes are safe.
func (s *Store) AddShow(show ShowImport) (added bool, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id := ShowID(show.BandName, show.ShowDate, show.VenueName)

	var dummy string
	err = tx.QueryRow("SELECT id FROM Show WHERE id = ?", id).Scan(&dummy)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, fmt.Errorf("checking show %q: %w", id, err)
	}

	_, err = tx.Exec(`
		INSERT INTO Show (id, band_name, show_date, venue_name, venue_city, venue_state, venue_country, tour_name, verified, source_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, show.BandName, show.ShowDate, show.VenueName, show.VenueCity, show.VenueState,
		show.VenueCountry, show.TourName, show.Verified, show.SourceURL)
	if err != nil {
		return false, fmt.Errorf("inserting show %q: %w", id, err)
	}

	for _, e := range show.Entries {
		_, err = tx.Exec(`
			INSERT INTO SetlistEntry (show_id, band_name, song_name, show_date, set_type, set_position,
				transitions_into, is_jam, is_tease, is_partial, is_cover, original_artist, performance_notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, show.BandName, e.SongName, show.ShowDate, e.SetType, e.SetPosition,
			e.TransitionsInto, e.IsJam, e.IsTease, e.IsPartial, e.IsCover, e.OriginalArtist, e.PerformanceNotes)
		if err != nil {
			return false, fmt.Errorf("inserting entry %q for show %q: %w", e.SongName, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing transaction: %w", err)
	}
	return true, nil
}

// PredictionImport is a completed prediction run plus its ranked songs.
type PredictionImport struct {
	BandName           string
	AlgorithmName      string
	ShowDate           string
	VenueName          string
	VenueCity          string
	VenueState         string
	DataThroughDate    string
	TotalShowsAnalyzed int
	Songs              []PredictedSongImport
}

type PredictedSongImport struct {
	SongName   string
	SlotType   string
	Confidence float64
	Rank       int
	Reasoning  []string
	TotalPlays int
	LastPlayed string
}

// SavePrediction stores a run, replacing any previous run for the same
// band, algorithm, and show date.
func (s *Store) SavePrediction(p PredictionImport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRow(
		"SELECT id FROM Prediction WHERE band_name = ? AND algorithm_name = ? AND show_date = ?",
		p.BandName, p.AlgorithmName, p.ShowDate).Scan(&existing)
	if err == nil {
		if _, err := tx.Exec("DELETE FROM PredictedSong WHERE prediction_id = ?", existing); err != nil {
			return fmt.Errorf("clearing previous run: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM Prediction WHERE id = ?", existing); err != nil {
			return fmt.Errorf("clearing previous run: %w", err)
		}
	} else if err != sql.ErrNoRows {
		return fmt.Errorf("checking previous run: %w", err)
	}

	res, err := tx.Exec(`
		INSERT INTO Prediction (band_name, algorithm_name, show_date, venue_name, venue_city, venue_state, data_through_date, total_shows_analyzed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.BandName, p.AlgorithmName, p.ShowDate, p.VenueName, p.VenueCity, p.VenueState,
		p.DataThroughDate, p.TotalShowsAnalyzed)
	if err != nil {
		return fmt.Errorf("inserting prediction: %w", err)
	}
	predictionID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting prediction id: %w", err)
	}

	for _, song := range p.Songs {
		_, err = tx.Exec(`
			INSERT INTO PredictedSong (prediction_id, song_name, slot_type, confidence, rank, reasoning, total_plays, last_played)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			predictionID, song.SongName, song.SlotType, song.Confidence, song.Rank,
			strings.Join(song.Reasoning, "; "), song.TotalPlays, song.LastPlayed)
		if err != nil {
			return fmt.Errorf("inserting predicted song %q: %w", song.SongName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Report subscriptions

func (s *Store) AddReport(email, band string) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO Report (email, band_name) VALUES (?, ?)", email, band)
	if err != nil {
		return fmt.Errorf("inserting report for %q: %w", email, err)
	}
	return nil
}

func (s *Store) DeleteReport(email string) error {
	res, err := s.db.Exec("DELETE FROM Report WHERE email = ?", email)
	if err != nil {
		return fmt.Errorf("deleting report for %q: %w", email, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting report for %q: %w", email, err)
	}
	if n == 0 {
		return fmt.Errorf("no report subscription for %q", email)
	}
	return nil
}

func (s *Store) MarkReportSent(email string, sent time.Time) error {
	_, err := s.db.Exec("UPDATE Report SET sent = ? WHERE email = ?", sent, email)
	if err != nil {
		return fmt.Errorf("marking report sent for %q: %w", email, err)
	}
	return nil
}
