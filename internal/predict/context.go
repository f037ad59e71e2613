package predict

import (
	"strings"
	"time"
)

type Season string

const (
	SeasonWinter  Season = "Winter"
	SeasonSpring  Season = "Spring"
	SeasonSummer  Season = "Summer"
	SeasonFall    Season = "Fall"
	SeasonUnknown Season = ""
)

type VenueType string

const (
	VenueAmphitheater VenueType = "amphitheater"
	VenueTheater      VenueType = "theater"
	VenueFestival     VenueType = "festival"
	VenueClub         VenueType = "club"
)

// ShowContext holds the situational signals derived once per prediction
// run. Immutable after AnalyzeContext returns.
type ShowContext struct {
	Date      time.Time
	DateValid bool
	VenueName string
	Season    Season
	VenueType VenueType
	IsWeekend bool

	// Curveball estimates how likely the show is to favor deep cuts
	// over catalog staples, 0..1.
	Curveball float64
}

// AnalyzeContext derives the show context from a yyyy-mm-dd date and a
// venue name. An unparseable date never fails the run: the season and
// weekend signals are simply left unset, so their bonuses don't fire.
func AnalyzeContext(showDate, venueName string) ShowContext {
	ctx := ShowContext{
		VenueName: venueName,
		VenueType: classifyVenue(venueName),
	}

	if d, err := time.Parse("2006-01-02", showDate); err == nil {
		ctx.Date = d
		ctx.DateValid = true
		ctx.Season = seasonOf(d.Month())
		wd := d.Weekday()
		ctx.IsWeekend = wd == time.Saturday || wd == time.Sunday
	}

	ctx.Curveball = curveballScore(ctx)
	return ctx
}

func seasonOf(m time.Month) Season {
	switch m {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonFall
	}
}

// classifyVenue matches venue-name keywords against the venue categories.
// Check order matters and is fixed: amphitheater, theater, festival, club.
// A name matching two categories keeps the earlier one, so "Festival Hall"
// is a theater, not a festival.
func classifyVenue(venueName string) VenueType {
	v := strings.ToLower(venueName)

	for _, w := range []string{"amphitheater", "amphitheatre", "pavilion", "shed"} {
		if strings.Contains(v, w) {
			return VenueAmphitheater
		}
	}
	for _, w := range []string{"theatre", "theater", "hall", "center", "opera"} {
		if strings.Contains(v, w) {
			return VenueTheater
		}
	}
	for _, w := range []string{"festival", "grounds", "field", "park"} {
		if strings.Contains(v, w) {
			return VenueFestival
		}
	}
	return VenueClub
}

// curveballScore accumulates independent unpredictability signals:
// summer amphitheater runs skew adventurous, small rooms invite
// experimentation, weekends loosen the setlist.
func curveballScore(ctx ShowContext) float64 {
	score := 0.0

	if ctx.Season == SeasonSummer && ctx.VenueType == VenueAmphitheater {
		score += 0.3
	}
	if ctx.VenueType == VenueClub || ctx.VenueType == VenueTheater {
		score += 0.2
	}
	if ctx.IsWeekend {
		score += 0.1
	}

	v := strings.ToLower(ctx.VenueName)
	for _, w := range []string{"community", "rec", "small", "intimate"} {
		if strings.Contains(v, w) {
			score += 0.2
			break
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
