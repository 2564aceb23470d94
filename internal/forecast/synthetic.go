package forecast

import (
	"fmt"
	"math/rand"
	"time"
)

// SyntheticGenerator fabricates a plausible forecast when no real provider
// data is obtainable. It never fails.
type SyntheticGenerator struct {
	rand *rand.Rand
	now  func() time.Time
}

func NewSyntheticGenerator() *SyntheticGenerator {
	return &SyntheticGenerator{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:  time.Now,
	}
}

// NewSyntheticGeneratorWithSource injects the randomness source and clock,
// for tests.
func NewSyntheticGeneratorWithSource(src rand.Source, now func() time.Time) *SyntheticGenerator {
	return &SyntheticGenerator{
		rand: rand.New(src),
		now:  now,
	}
}

var winterMonths = map[time.Month]bool{
	time.November: true, time.December: true,
	time.January: true, time.February: true, time.March: true,
}

var windDirections = []string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}

const syntheticNote = "synthetic demo data - configure a weather API key for real forecasts"

// baselineTemp buckets the temperature by absolute latitude and season:
// polar winter [-15,5] / summer [-5,15], temperate winter [-5,15] / summer
// [5,25], tropical winter [10,25] / summer [20,35].
func (g *SyntheticGenerator) baselineTemp(lat float64, month time.Month) int {
	winter := winterMonths[month]
	abs := lat
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs > 60:
		if winter {
			return g.randRange(-15, 5)
		}
		return g.randRange(-5, 15)
	case abs > 40:
		if winter {
			return g.randRange(-5, 15)
		}
		return g.randRange(5, 25)
	default:
		if winter {
			return g.randRange(10, 25)
		}
		return g.randRange(20, 35)
	}
}

// Generate produces a canonical document with Days consecutive calendar
// days starting today, in the local timezone.
func (g *SyntheticGenerator) Generate(lat, lon float64, days int) Document {
	now := g.now()
	base := g.baselineTemp(lat, now.Month())

	type syntheticCondition struct {
		code        string
		description string
		icon        string
	}

	conditions := []syntheticCondition{
		{"clear", "ясно", "☀️"},
		{"partly-cloudy", "малооблачно", "⛅"},
		{"cloudy", "облачно", "☁️"},
		{"rain", "дождь", "🌧️"},
	}
	if base < 5 {
		conditions = append(conditions, syntheticCondition{"snow", "снег", "❄️"})
	} else {
		conditions = append(conditions, syntheticCondition{"clear", "ясно", "☀️"})
	}

	forecast := make([]Day, 0, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, i)
		temp := base + g.randRange(-5, 5)
		cond := conditions[g.rand.Intn(len(conditions))]

		forecast = append(forecast, Day{
			Date: date.Format("2006-01-02"),
			Temperature: Temperature{
				Day:       temp,
				Min:       temp - g.randRange(2, 5),
				Max:       temp + g.randRange(2, 5),
				FeelsLike: temp + g.randRange(-2, 2),
			},
			Weather: Conditions{
				Main:        titleCase(cond.code),
				Description: cond.description,
				Icon:        cond.icon,
			},
			Humidity:      intPtr(g.randRange(40, 80)),
			Pressure:      intPtr(g.randRange(745, 770)),
			WindSpeed:     floatPtr(float64(g.randRange(10, 80)) / 10),
			Clouds:        intPtr(LookupCondition(cond.code).Clouds),
			WindDirection: strPtr(windDirections[g.rand.Intn(len(windDirections))]),
		})
	}

	return Document{
		Location:     fmt.Sprintf("Location (%.2f, %.2f)", lat, lon),
		Country:      "RU",
		Coordinates:  fmt.Sprintf("%g, %g", lat, lon),
		ForecastDays: len(forecast),
		Forecast:     forecast,
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		DataSource:   SourceSynthetic,
		Note:         syntheticNote,
	}
}

// randRange returns a uniform integer in [lo, hi], both inclusive.
func (g *SyntheticGenerator) randRange(lo, hi int) int {
	return lo + g.rand.Intn(hi-lo+1)
}
