package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ShowRecord is a stored show row.
type ShowRecord struct {
	ID         string
	BandName   string
	ShowDate   string
	VenueName  string
	VenueCity  string
	VenueState string
	TourName   string
}

// SetlistSong is one performed song, in set order.
type SetlistSong struct {
	SongName    string
	SetType     string
	SetPosition int
	IsJam       bool
}

// GetShows returns shows for a band with dates in [start, end), newest first.
func (s *Store) GetShows(band string, start, end time.Time) ([]ShowRecord, error) {
	query := `
		SELECT id, band_name, show_date, venue_name,
			COALESCE(venue_city, ''), COALESCE(venue_state, ''), COALESCE(tour_name, '')
		FROM Show
		WHERE band_name = ? AND show_date >= ? AND show_date < ?
		ORDER BY show_date DESC
	`
	rows, err := s.db.Query(query, band, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("querying shows: %w", err)
	}
	defer rows.Close()

	var shows []ShowRecord
	for rows.Next() {
		var sh ShowRecord
		if err := rows.Scan(&sh.ID, &sh.BandName, &sh.ShowDate, &sh.VenueName, &sh.VenueCity, &sh.VenueState, &sh.TourName); err != nil {
			return nil, fmt.Errorf("scanning show: %w", err)
		}
		shows = append(shows, sh)
	}
	return shows, rows.Err()
}

// GetSetlist returns the songs performed on a given date, in set order.
func (s *Store) GetSetlist(band, showDate string) ([]SetlistSong, error) {
	query := `
		SELECT song_name, set_type, set_position, is_jam
		FROM SetlistEntry
		WHERE band_name = ? AND show_date = ?
		ORDER BY set_type, set_position
	`
	rows, err := s.db.Query(query, band, showDate)
	if err != nil {
		return nil, fmt.Errorf("querying setlist: %w", err)
	}
	defer rows.Close()

	var songs []SetlistSong
	for rows.Next() {
		var song SetlistSong
		if err := rows.Scan(&song.SongName, &song.SetType, &song.SetPosition, &song.IsJam); err != nil {
			return nil, fmt.Errorf("scanning setlist entry: %w", err)
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// GetLatestShowDate returns the most recent ingested show date for a band,
// or the zero string when the warehouse has no shows yet.
func (s *Store) GetLatestShowDate(band string) (string, error) {
	row := s.db.QueryRow("SELECT MAX(show_date) FROM Show WHERE band_name = ?", band)
	var date sql.NullString
	if err := row.Scan(&date); err != nil {
		return "", fmt.Errorf("getting latest show date: %w", err)
	}
	return date.String, nil
}

func (s *Store) CountShows(band string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM Show WHERE band_name = ?", band).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting shows: %w", err)
	}
	return count, nil
}

// PredictionRun is a stored run header.
type PredictionRun struct {
	ID                 int64
	BandName           string
	AlgorithmName      string
	ShowDate           string
	VenueName          string
	TotalShowsAnalyzed int
	GeneratedAt        time.Time
}

func (s *Store) ListPredictions(band string) ([]PredictionRun, error) {
	query := `
		SELECT id, band_name, algorithm_name, show_date, COALESCE(venue_name, ''),
			COALESCE(total_shows_analyzed, 0), generated_at
		FROM Prediction
		WHERE band_name = ?
		ORDER BY show_date DESC
	`
	rows, err := s.db.Query(query, band)
	if err != nil {
		return nil, fmt.Errorf("querying predictions: %w", err)
	}
	defer rows.Close()

	var runs []PredictionRun
	for rows.Next() {
		var r PredictionRun
		if err := rows.Scan(&r.ID, &r.BandName, &r.AlgorithmName, &r.ShowDate, &r.VenueName, &r.TotalShowsAnalyzed, &r.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scanning prediction: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// StoredPrediction is one predicted song from a stored run.
type StoredPrediction struct {
	SongName   string
	SlotType   string
	Confidence float64
	Rank       int
	Reasoning  string
}

// GetPredictedSongs returns the ranked songs of a stored run.
func (s *Store) GetPredictedSongs(band, algorithm, showDate string) ([]StoredPrediction, error) {
	query := `
		SELECT ps.song_name, ps.slot_type, ps.confidence, ps.rank, COALESCE(ps.reasoning, '')
		FROM PredictedSong ps
		JOIN Prediction p ON p.id = ps.prediction_id
		WHERE p.band_name = ? AND p.algorithm_name = ? AND p.show_date = ?
		ORDER BY ps.rank
	`
	rows, err := s.db.Query(query, band, algorithm, showDate)
	if err != nil {
		return nil, fmt.Errorf("querying predicted songs: %w", err)
	}
	defer rows.Close()

	var songs []StoredPrediction
	for rows.Next() {
		var p StoredPrediction
		if err := rows.Scan(&p.SongName, &p.SlotType, &p.Confidence, &p.Rank, &p.Reasoning); err != nil {
			return nil, fmt.Errorf("scanning predicted song: %w", err)
		}
		songs = append(songs, p)
	}
	return songs, rows.Err()
}

// ReportSubscription is one email report subscriber.
type ReportSubscription struct {
	Email    string
	BandName string
	Sent     time.Time
}

func (s *Store) ListReports() ([]ReportSubscription, error) {
	rows, err := s.db.Query("SELECT email, band_name, sent FROM Report ORDER BY email")
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []ReportSubscription
	for rows.Next() {
		var r ReportSubscription
		var sent sql.NullTime
		if err := rows.Scan(&r.Email, &r.BandName, &sent); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		if sent.Valid {
			r.Sent = sent.Time
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
