package predict

import "time"

// Tier buckets a song's historical play frequency into a predictability
// band. Higher tiers earn a higher confidence floor but a compressed
// ceiling, so confidence grows sub-linearly with frequency.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	default:
		return "low"
	}
}

// SongCatalogEntry is the per-song historical record the engine scores
// against. Entries are read-only for the duration of a prediction run.
type SongCatalogEntry struct {
	Name           string
	Frequency      float64 // fraction of shows the song appeared in, 0..1
	OpenerRate     float64 // fraction of plays that opened the show
	EncoreRate     float64 // fraction of plays in an encore slot
	TotalPlays     int
	AvgGapDays     float64   // mean days between successive plays
	LastPlayed     time.Time // zero when the warehouse doesn't know
	Energy         string    // categorical: "epic", "high", "mellow", ...
	IsCover        bool
	OriginalArtist string
}

// TierFor buckets a frequency using the configured breakpoints.
func (c Config) TierFor(frequency float64) Tier {
	switch {
	case frequency > c.HighFrequency:
		return TierHigh
	case frequency > c.MediumFrequency:
		return TierMedium
	default:
		return TierLow
	}
}
