package predict

import (
	"fmt"
	"sort"
)

// Candidate is a transient, pre-deduplication prediction produced by one
// of the slot generators.
type Candidate struct {
	Song       SongCatalogEntry
	Slot       SlotType
	Confidence float64
	Reasoning  []string
	DaysSince  int
}

// Every generator follows the same shape: filter the catalog to eligible
// songs not yet claimed by an earlier generator, score them, sort
// descending (stable, so catalog order breaks ties), and keep the top N.

func (e *Engine) openerCandidates(catalog []SongCatalogEntry, ctx ShowContext, taken map[string]bool) []Candidate {
	var out []Candidate
	for _, song := range catalog {
		if taken[song.Name] || e.excluded(song.Name) {
			continue
		}
		if song.OpenerRate <= e.cfg.OpenerRateThreshold && !contains(e.cfg.OpenerSpecialists, song.Name) {
			continue
		}
		out = append(out, e.scoreCandidate(song, SlotOpener, ctx))
	}
	return topN(out, e.cfg.OpenerPicks)
}

func (e *Engine) encoreCandidates(catalog []SongCatalogEntry, ctx ShowContext, taken map[string]bool) []Candidate {
	var out []Candidate
	for _, song := range catalog {
		if taken[song.Name] || e.excluded(song.Name) {
			continue
		}
		if song.EncoreRate <= e.cfg.EncoreRateThreshold && !contains(e.cfg.EncoreSpecialists, song.Name) {
			continue
		}
		out = append(out, e.scoreCandidate(song, SlotEncore, ctx))
	}
	return topN(out, e.cfg.EncorePicks)
}

// rotationCandidates scores the entire remaining catalog. The retained
// count scales with catalog size, clamped to [RotationMin, RotationMax],
// with two extra picks on strongly curveball-leaning shows.
func (e *Engine) rotationCandidates(catalog []SongCatalogEntry, ctx ShowContext, taken map[string]bool) []Candidate {
	var out []Candidate
	for _, song := range catalog {
		if taken[song.Name] || e.excluded(song.Name) {
			continue
		}
		out = append(out, e.scoreCandidate(song, SlotRotation, ctx))
	}

	n := len(catalog) * 2 / 5
	if n < e.cfg.RotationMin {
		n = e.cfg.RotationMin
	}
	if n > e.cfg.RotationMax {
		n = e.cfg.RotationMax
	}
	if ctx.Curveball > 0.6 {
		n += 2
	}
	return topN(out, n)
}

// wildcardCandidates draws from the low-frequency pool. The count grows
// with the curveball score: adventurous shows get more deep-cut bets.
func (e *Engine) wildcardCandidates(catalog []SongCatalogEntry, ctx ShowContext, taken map[string]bool) []Candidate {
	var out []Candidate
	for _, song := range catalog {
		if taken[song.Name] || e.excluded(song.Name) {
			continue
		}
		if song.Frequency > e.cfg.WildcardMaxFrequency {
			continue
		}
		out = append(out, e.scoreCandidate(song, SlotWildcard, ctx))
	}

	n := e.cfg.WildcardBase + int(ctx.Curveball*2)
	return topN(out, n)
}

// sequenceCandidates adds the second half of known strong pairs: when a
// chosen song historically pulls a specific follower, the follower comes
// in at a fixed high confidence.
func (e *Engine) sequenceCandidates(chosen []Candidate, byName map[string]SongCatalogEntry, taken map[string]bool) []Candidate {
	var out []Candidate
	for _, c := range chosen {
		follow, ok := e.cfg.SongSequences[c.Song.Name]
		if !ok || taken[follow] || e.excluded(follow) {
			continue
		}
		song, ok := byName[follow]
		if !ok {
			continue
		}
		taken[follow] = true
		out = append(out, Candidate{
			Song:       song,
			Slot:       SlotSequence,
			Confidence: e.cfg.SequenceConfidence,
			Reasoning: []string{
				fmt.Sprintf("strong sequence pattern: %s -> %s", c.Song.Name, follow),
			},
		})
	}
	return out
}

func (e *Engine) scoreCandidate(song SongCatalogEntry, slot SlotType, ctx ShowContext) Candidate {
	daysGap := e.daysSince(song, slot, ctx)
	conf, reasons := e.scorer.Score(song, slot, ctx, daysGap)
	return Candidate{
		Song:       song,
		Slot:       slot,
		Confidence: conf,
		Reasoning:  reasons,
		DaysSince:  daysGap,
	}
}

// daysSince prefers the real gap when the warehouse knows the last play
// date; otherwise it simulates one from the song's average gap plus
// slot-specific jitter from the injected random source. Negative gaps
// clamp to one day.
func (e *Engine) daysSince(song SongCatalogEntry, slot SlotType, ctx ShowContext) int {
	if !song.LastPlayed.IsZero() && ctx.DateValid {
		gap := int(ctx.Date.Sub(song.LastPlayed).Hours() / 24)
		if gap < 1 {
			gap = 1
		}
		return gap
	}

	j, ok := e.cfg.GapJitter[slot]
	if !ok {
		j = e.cfg.GapJitter[SlotRotation]
	}
	gap := int(song.AvgGapDays)
	if j.High > j.Low {
		gap += j.Low + e.rng.Intn(j.High-j.Low+1)
	}
	if gap < 1 {
		gap = 1
	}
	return gap
}

func (e *Engine) excluded(name string) bool {
	return contains(e.cfg.Excluded, name)
}

// topN sorts candidates by confidence descending and keeps the first n.
// The sort is stable, so equal confidences keep catalog order.
func topN(candidates []Candidate, n int) []Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}
