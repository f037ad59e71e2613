package predict

import "fmt"

// Scorer turns a song's catalog statistics, a slot type, and the show
// context into a single bounded confidence plus the reasoning behind it.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes confidence for playing song in the given slot, with
// daysGap days since its last performance. Confidence is a fraction in
// [MinConfidence, MaxConfidence]; the reasoning strings record which
// terms fired, in the order they were applied. There are no error
// conditions: missing statistics fall back to a conservative baseline.
func (s *Scorer) Score(song SongCatalogEntry, slot SlotType, ctx ShowContext, daysGap int) (float64, []string) {
	var reasons []string

	conf := s.baseConfidence(song, slot, &reasons)
	conf += s.gapScore(slot, daysGap, &reasons)

	if ctx.Season != SeasonUnknown && contains(s.cfg.SeasonalBoosts[ctx.Season], song.Name) {
		conf += s.cfg.SeasonBonus
		reasons = append(reasons, fmt.Sprintf("%s staple", ctx.Season))
	}

	if contains(s.cfg.VenueAffinities[ctx.VenueType], song.Name) {
		conf += s.cfg.VenueBonus
		reasons = append(reasons, fmt.Sprintf("favored at %s venues", ctx.VenueType))
	}

	switch slot {
	case SlotOpener:
		if contains(s.cfg.OpenerSpecialists, song.Name) {
			conf += s.cfg.OpenerSpecialistBonus
			reasons = append(reasons, "known opener")
		}
	case SlotEncore:
		if contains(s.cfg.EncoreSpecialists, song.Name) {
			conf += s.cfg.EncoreSpecialistBonus
			reasons = append(reasons, "known encore closer")
		}
	}

	energy := s.energyOf(song)
	if energy == "epic" && (ctx.VenueType == VenueAmphitheater || ctx.VenueType == VenueFestival) {
		conf += s.cfg.EnergyVenueBonus
		reasons = append(reasons, fmt.Sprintf("epic energy match for %s", ctx.VenueType))
	}

	if ctx.IsWeekend && contains(s.cfg.WeekendEnergies, energy) {
		conf += s.cfg.WeekendBonus
		reasons = append(reasons, "weekend energy boost")
	}

	if slot == SlotWildcard && ctx.Curveball > 0 {
		conf += ctx.Curveball * s.cfg.WildcardCurveballWeight
		reasons = append(reasons, fmt.Sprintf("curveball potential %.0f%%", ctx.Curveball*100))
	}

	if slot == SlotWildcard && song.IsCover && song.OriginalArtist != "" {
		reasons = append(reasons, fmt.Sprintf("%s cover", song.OriginalArtist))
	}

	return s.clamp(conf), reasons
}

// baseConfidence maps historical frequency onto the tier's confidence
// band. Wildcards use their own lower band regardless of tier.
func (s *Scorer) baseConfidence(song SongCatalogEntry, slot SlotType, reasons *[]string) float64 {
	freq := song.Frequency
	if freq <= 0 && song.TotalPlays == 0 {
		freq = s.cfg.FallbackFrequency
		*reasons = append(*reasons, "limited history, baseline estimate")
	}

	if slot == SlotWildcard {
		*reasons = append(*reasons, fmt.Sprintf("deep cut (%.1f%% of shows)", freq*100))
		return s.cfg.WildcardBand.apply(freq)
	}

	tier := s.cfg.TierFor(freq)
	band, ok := s.cfg.TierBands[tier]
	if !ok {
		band = ConfidenceBand{Floor: 0.45, Slope: 0.60, Ceiling: 0.75}
	}
	*reasons = append(*reasons, fmt.Sprintf("%s-frequency song (%.1f%% of shows)", tier, freq*100))
	return band.apply(freq)
}

func (b ConfidenceBand) apply(frequency float64) float64 {
	conf := b.Floor + frequency*b.Slope
	if conf > b.Ceiling {
		conf = b.Ceiling
	}
	return conf
}

// gapScore rewards gaps inside the slot's Goldilocks zone and penalizes
// stale rotation. Gaps that are merely fresh contribute nothing.
func (s *Scorer) gapScore(slot SlotType, daysGap int, reasons *[]string) float64 {
	zone, ok := s.cfg.GapZones[slot]
	if !ok {
		zone = s.cfg.GapZones[SlotRotation]
	}

	switch {
	case daysGap >= zone.SweetLow && daysGap <= zone.SweetHigh:
		*reasons = append(*reasons, fmt.Sprintf("in the Goldilocks zone (%d days)", daysGap))
		return s.cfg.SweetGapBonus
	case daysGap > zone.SweetHigh && daysGap <= zone.OuterHigh:
		*reasons = append(*reasons, fmt.Sprintf("%d days since last played", daysGap))
		return s.cfg.OuterGapBonus
	case daysGap > zone.OuterHigh:
		*reasons = append(*reasons, fmt.Sprintf("overdue for rotation (%d days)", daysGap))
		return -s.cfg.StaleGapPenalty
	default:
		*reasons = append(*reasons, fmt.Sprintf("played recently (%d days)", daysGap))
		return 0
	}
}

// energyOf prefers the catalog's own tag, falling back to the curated
// table when the warehouse has no tag for the song.
func (s *Scorer) energyOf(song SongCatalogEntry) string {
	if song.Energy != "" {
		return song.Energy
	}
	return s.cfg.EnergyTags[song.Name]
}

func (s *Scorer) clamp(conf float64) float64 {
	if conf > s.cfg.MaxConfidence {
		return s.cfg.MaxConfidence
	}
	if conf < s.cfg.MinConfidence {
		return s.cfg.MinConfidence
	}
	return conf
}
