package predict

// SlotType is the structural role a predicted song fills.
type SlotType string

const (
	SlotOpener   SlotType = "opener"
	SlotEncore   SlotType = "encore"
	SlotRotation SlotType = "rotation_candidate"
	SlotWildcard SlotType = "wild_card"
	SlotSequence SlotType = "sequence_follow"
)

// GapZone is the days-since-last-played range judged neither too recent
// nor too stale for a slot type: gaps inside [SweetLow, SweetHigh] earn
// the full bonus, gaps inside (SweetHigh, OuterHigh] a reduced one, and
// gaps beyond OuterHigh a staleness penalty.
type GapZone struct {
	SweetLow  int
	SweetHigh int
	OuterHigh int
}

// Jitter is the uniform noise range added to a song's average gap when
// simulating days since last played.
type Jitter struct {
	Low  int
	High int
}

// ConfidenceBand maps a frequency onto a confidence range:
// Floor + frequency*Slope, capped at Ceiling.
type ConfidenceBand struct {
	Floor   float64
	Slope   float64
	Ceiling float64
}

// Config carries every tuning table the engine uses. Nothing here is
// package-level state; construct one (usually DefaultConfig) and hand it
// to New. Confidence values are fractions in [0, 1] throughout.
type Config struct {
	AlgorithmVersion string

	// Output shape.
	MaxPredictions int
	OpenerPicks    int
	EncorePicks    int
	RotationMin    int
	RotationMax    int
	WildcardBase   int // wildcard count before the curveball scaling

	// Candidate eligibility.
	OpenerRateThreshold  float64
	EncoreRateThreshold  float64
	WildcardMaxFrequency float64

	// Tier breakpoints on historical frequency.
	HighFrequency   float64
	MediumFrequency float64

	// Base confidence mapping per tier, plus the wildcard pool's own band.
	TierBands    map[Tier]ConfidenceBand
	WildcardBand ConfidenceBand

	// Assumed frequency for songs with no usable history.
	FallbackFrequency float64

	// Additive bonuses and penalties.
	SeasonBonus             float64
	VenueBonus              float64
	OpenerSpecialistBonus   float64
	EncoreSpecialistBonus   float64
	WeekendBonus            float64
	EnergyVenueBonus        float64
	SweetGapBonus           float64
	OuterGapBonus           float64
	StaleGapPenalty         float64
	WildcardCurveballWeight float64

	SequenceConfidence float64
	MaxConfidence      float64
	MinConfidence      float64

	// Curated affinity tables.
	SeasonalBoosts    map[Season][]string
	VenueAffinities   map[VenueType][]string
	OpenerSpecialists []string
	EncoreSpecialists []string
	SongSequences     map[string]string // song -> song it strongly precedes
	EnergyTags        map[string]string // fallback energy tags by song name
	WeekendEnergies   []string          // energy tags that earn the weekend bonus
	Excluded          []string          // songs with a proven 0% prediction success rate

	GapZones  map[SlotType]GapZone
	GapJitter map[SlotType]Jitter
}

// DefaultConfig returns the tuning derived from the historical Goose
// analysis (516 shows, 387 unique songs). Other bands want their own
// tables; the engine itself is band-agnostic.
func DefaultConfig() Config {
	return Config{
		AlgorithmVersion: "goldilocks_v9.0",

		MaxPredictions: 16,
		OpenerPicks:    3,
		EncorePicks:    3,
		RotationMin:    6,
		RotationMax:    8,
		WildcardBase:   3,

		OpenerRateThreshold:  0.08,
		EncoreRateThreshold:  0.08,
		WildcardMaxFrequency: 0.12,

		HighFrequency:   0.20,
		MediumFrequency: 0.10,

		TierBands: map[Tier]ConfidenceBand{
			TierHigh:   {Floor: 0.75, Slope: 0.50, Ceiling: 0.95},
			TierMedium: {Floor: 0.65, Slope: 0.40, Ceiling: 0.85},
			TierLow:    {Floor: 0.45, Slope: 0.60, Ceiling: 0.75},
		},
		WildcardBand: ConfidenceBand{Floor: 0.55, Slope: 1.0, Ceiling: 0.75},

		FallbackFrequency: 0.10,

		SeasonBonus:             0.08,
		VenueBonus:              0.06,
		OpenerSpecialistBonus:   0.12,
		EncoreSpecialistBonus:   0.15,
		WeekendBonus:            0.05,
		EnergyVenueBonus:        0.06,
		SweetGapBonus:           0.06,
		OuterGapBonus:           0.02,
		StaleGapPenalty:         0.04,
		WildcardCurveballWeight: 0.15,

		SequenceConfidence: 0.92,
		MaxConfidence:      0.98,
		MinConfidence:      0.10,

		SeasonalBoosts: map[Season][]string{
			SeasonSpring: {"Arcadia", "Hot Tea", "Tumble"},
			SeasonSummer: {"Madhuvan", "All I Need", "Arcadia"},
			SeasonFall:   {"Hot Tea", "All I Need", "Madhuvan"},
			SeasonWinter: {"Echo of a Rose", "Hot Tea", "Arcadia"},
		},
		VenueAffinities: map[VenueType][]string{
			VenueAmphitheater: {"Madhuvan", "Creatures", "Wysteria Lane", "Echo of a Rose", "All I Need"},
			VenueTheater:      {"Hot Tea", "Slow Ready", "Arcadia", "Drive"},
			VenueFestival:     {"Madhuvan", "Jive I", "Time to Flee", "Flodown"},
			VenueClub:         {"Butter Rum", "Arrow", "Doobie Song", "Atlas Dogs"},
		},
		OpenerSpecialists: []string{
			"Flodown", "Drive", "Time to Flee", "Yeti", "Atlas Dogs", "Butter Rum", "Jive I",
		},
		EncoreSpecialists: []string{
			"Hot Tea", "Slow Ready", "White Lights", "Turn On Your Love Light", "Butter Rum", "Arcadia",
		},
		SongSequences: map[string]string{
			"Seekers on the Ridge pt I": "Seekers on the Ridge pt II",
			"Jive I":                    "Jive Lee",
			"Jive II":                   "Jive Lee",
			"Yeti":                      "Pumped Up Kicks",
			"I'm Alright":               "Make The Move",
			"Borne":                     "Hungersite",
			"726":                       "Dripfield",
		},
		EnergyTags: map[string]string{
			"Madhuvan":              "epic",
			"Seekers on the Ridge":  "epic",
			"Echo of a Rose":        "epic",
			"Time to Flee":          "high",
			"Factory Fiction":       "high",
			"Arcadia":               "high",
			"Creatures":             "high",
			"Hot Tea":               "mellow",
			"Slow Ready":            "mellow",
			"Butter Rum":            "groovy",
			"Doobie Song":           "fun",
			"Into the Myst":         "mystical",
			"The Labyrinth":         "complex",
			"Honeybee":              "sweet",
			"Dr. Darkness":          "dark",
			"Drive":                 "medium",
			"Hungersite":            "medium",
			"Arrow":                 "medium",
			"Atlas Dogs":            "medium",
		},
		WeekendEnergies: []string{"high", "epic"},
		Excluded:        []string{"No Rain", "Shama Lama Ding Dong", "Pancakes"},

		GapZones: map[SlotType]GapZone{
			SlotOpener:   {SweetLow: 15, SweetHigh: 45, OuterHigh: 90},
			SlotEncore:   {SweetLow: 20, SweetHigh: 60, OuterHigh: 120},
			SlotRotation: {SweetLow: 10, SweetHigh: 40, OuterHigh: 80},
			SlotWildcard: {SweetLow: 30, SweetHigh: 120, OuterHigh: 365},
			SlotSequence: {SweetLow: 10, SweetHigh: 40, OuterHigh: 80},
		},
		GapJitter: map[SlotType]Jitter{
			SlotOpener:   {Low: -10, High: 15},
			SlotEncore:   {Low: -15, High: 20},
			SlotRotation: {Low: -20, High: 25},
			SlotWildcard: {Low: -20, High: 25},
			SlotSequence: {Low: -20, High: 25},
		},
	}
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
