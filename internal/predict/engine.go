// Package predict implements the setlist prediction engine: a pure,
// single-shot scoring pipeline that ranks candidate songs for an
// upcoming show from per-song historical statistics and the show's
// context (season, venue type, day of week).
package predict

import (
	"math/rand"
	"sort"
	"time"
)

// ShowInput identifies the upcoming show to predict for.
type ShowInput struct {
	BandName   string
	ShowDate   string // yyyy-mm-dd
	VenueName  string
	VenueCity  string
	VenueState string
}

// PredictionRecord is one ranked output row. Within one run no two
// records share a song name, and ranks are a dense 1..N sequence in
// descending confidence order.
type PredictionRecord struct {
	SongName         string   `yaml:"song_name"`
	Confidence       float64  `yaml:"confidence"` // fraction in [0, 1]
	SlotType         SlotType `yaml:"slot_type"`
	Reasoning        []string `yaml:"reasoning"`
	Rank             int      `yaml:"rank"`
	ShowDate         string   `yaml:"show_date"`
	BandName         string   `yaml:"band_name"`
	VenueName        string   `yaml:"venue_name"`
	TotalPlays       int      `yaml:"total_plays"`
	LastPlayed       string   `yaml:"last_played,omitempty"` // inferred, yyyy-mm-dd; empty when unknowable
	DaysSincePlayed  int      `yaml:"days_since_played,omitempty"`
	AlgorithmVersion string   `yaml:"algorithm_version"`
}

// Engine runs prediction pipelines. It holds no per-run state, so one
// Engine may serve concurrent runs as long as the random source is only
// reached from one goroutine at a time (hand each goroutine its own
// Engine for parallel backtests).
type Engine struct {
	cfg    Config
	scorer *Scorer
	rng    *rand.Rand
}

// New builds an engine. A nil rng gets a time-seeded source; tests pass
// a fixed-seed rand.New for reproducible runs.
func New(cfg Config, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		cfg:    cfg,
		scorer: NewScorer(cfg),
		rng:    rng,
	}
}

// Predict produces the ranked, capped, deduplicated prediction list for
// one show. An empty catalog yields an empty list, which is a legitimate
// terminal state, not an error.
func (e *Engine) Predict(input ShowInput, catalog []SongCatalogEntry) []PredictionRecord {
	if len(catalog) == 0 {
		return nil
	}

	ctx := AnalyzeContext(input.ShowDate, input.VenueName)

	byName := make(map[string]SongCatalogEntry, len(catalog))
	for _, song := range catalog {
		byName[song.Name] = song
	}

	// Generator order is fixed: opener, encore, rotation, wildcard,
	// sequence-follow. Each generator's selections are excluded from
	// the pools of everything after it.
	taken := make(map[string]bool)
	var candidates []Candidate
	for _, gen := range []func([]SongCatalogEntry, ShowContext, map[string]bool) []Candidate{
		e.openerCandidates,
		e.encoreCandidates,
		e.rotationCandidates,
		e.wildcardCandidates,
	} {
		batch := gen(catalog, ctx, taken)
		for _, c := range batch {
			taken[c.Song.Name] = true
		}
		candidates = append(candidates, batch...)
	}
	candidates = append(candidates, e.sequenceCandidates(candidates, byName, taken)...)

	survivors := aggregate(candidates)

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].Confidence > survivors[j].Confidence
	})
	if len(survivors) > e.cfg.MaxPredictions {
		survivors = survivors[:e.cfg.MaxPredictions]
	}

	return e.format(survivors, input, ctx)
}

// aggregate deduplicates candidates by song, keeping the highest
// confidence. Ties keep the first-seen candidate, which is well defined
// because generator execution order and catalog order are both fixed.
func aggregate(candidates []Candidate) []Candidate {
	index := make(map[string]int, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if i, ok := index[c.Song.Name]; ok {
			if c.Confidence > out[i].Confidence {
				out[i] = c
			}
			continue
		}
		index[c.Song.Name] = len(out)
		out = append(out, c)
	}
	return out
}

// format attaches show metadata and dense ranks to the survivors. The
// inferred last-played date is only derivable from a valid show date.
func (e *Engine) format(survivors []Candidate, input ShowInput, ctx ShowContext) []PredictionRecord {
	records := make([]PredictionRecord, 0, len(survivors))
	for i, c := range survivors {
		rec := PredictionRecord{
			SongName:         c.Song.Name,
			Confidence:       c.Confidence,
			SlotType:         c.Slot,
			Reasoning:        c.Reasoning,
			Rank:             i + 1,
			ShowDate:         input.ShowDate,
			BandName:         input.BandName,
			VenueName:        input.VenueName,
			TotalPlays:       c.Song.TotalPlays,
			DaysSincePlayed:  c.DaysSince,
			AlgorithmVersion: e.cfg.AlgorithmVersion,
		}
		if ctx.DateValid && c.DaysSince > 0 {
			rec.LastPlayed = ctx.Date.AddDate(0, 0, -c.DaysSince).Format("2006-01-02")
		}
		records = append(records, rec)
	}
	return records
}
