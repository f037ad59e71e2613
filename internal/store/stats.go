package store

import (
	"fmt"
	"time"
)

// SongStats are the aggregate per-song statistics the prediction engine
// consumes as its catalog. Rates are fractions in [0, 1].
type SongStats struct {
	SongName    string
	TotalPlays  int
	Frequency   float64 // fraction of shows the song appeared in
	OpenerRate  float64 // fraction of plays that opened the show
	EncoreRate  float64 // fraction of plays in an encore slot
	AvgGapDays  float64 // mean days between successive plays
	FirstPlayed    string
	LastPlayed     string
	JamCount       int
	IsCover        bool
	OriginalArtist string
}

// FetchSongStats aggregates the warehouse into a song catalog for a band,
// using only shows strictly before asOf (zero time means everything).
// Songs are returned in descending play count, catalog order.
func (s *Store) FetchSongStats(band string, asOf time.Time) ([]SongStats, int, error) {
	cutoff := "9999-12-31"
	if !asOf.IsZero() {
		cutoff = asOf.Format("2006-01-02")
	}

	var totalShows int
	err := s.db.QueryRow(
		"SELECT COUNT(DISTINCT show_date) FROM Show WHERE band_name = ? AND show_date < ?",
		band, cutoff).Scan(&totalShows)
	if err != nil {
		return nil, 0, fmt.Errorf("counting shows: %w", err)
	}
	if totalShows == 0 {
		return nil, 0, nil
	}

	query := `
		SELECT
			song_name,
			COUNT(DISTINCT show_date) AS plays,
			MIN(show_date) AS first_played,
			MAX(show_date) AS last_played,
			SUM(CASE WHEN set_position = 1 AND set_type IN ('Set 1', 'One Set') THEN 1 ELSE 0 END) AS openers,
			SUM(CASE WHEN set_type = 'Encore' THEN 1 ELSE 0 END) AS encores,
			SUM(CASE WHEN is_jam THEN 1 ELSE 0 END) AS jams,
			MAX(is_cover) AS is_cover,
			MAX(COALESCE(original_artist, '')) AS original_artist
		FROM SetlistEntry
		WHERE band_name = ? AND show_date < ?
		GROUP BY song_name
		ORDER BY plays DESC, song_name ASC
	`
	rows, err := s.db.Query(query, band, cutoff)
	if err != nil {
		return nil, 0, fmt.Errorf("querying song stats: %w", err)
	}
	defer rows.Close()

	var stats []SongStats
	for rows.Next() {
		var st SongStats
		var openers, encores int
		if err := rows.Scan(&st.SongName, &st.TotalPlays, &st.FirstPlayed, &st.LastPlayed, &openers, &encores, &st.JamCount, &st.IsCover, &st.OriginalArtist); err != nil {
			return nil, 0, fmt.Errorf("scanning song stats: %w", err)
		}
		st.Frequency = float64(st.TotalPlays) / float64(totalShows)
		if st.TotalPlays > 0 {
			st.OpenerRate = float64(openers) / float64(st.TotalPlays)
			st.EncoreRate = float64(encores) / float64(st.TotalPlays)
		}
		st.AvgGapDays = avgGapDays(st.FirstPlayed, st.LastPlayed, st.TotalPlays)
		stats = append(stats, st)
	}
	return stats, totalShows, rows.Err()
}

// avgGapDays estimates the mean days between plays from the first/last
// played span. Single plays have no gap to speak of.
func avgGapDays(first, last string, plays int) float64 {
	if plays < 2 {
		return 0
	}
	start, err := time.Parse("2006-01-02", first)
	if err != nil {
		return 0
	}
	end, err := time.Parse("2006-01-02", last)
	if err != nil {
		return 0
	}
	span := end.Sub(start).Hours() / 24
	if span <= 0 {
		return 0
	}
	return span / float64(plays-1)
}
