package forecast

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
)

// NormalizeYandex converts a Yandex payload into the canonical document.
// Deterministic: the same payload and timestamp always yield the same
// document.
func NormalizeYandex(p *YandexPayload, requestedDays int, now time.Time) Document {
	info := p.Info
	location := fmt.Sprintf("%.3f, %.3f", info.Lat, info.Lon)
	if info.TZInfo != nil && strings.Contains(info.TZInfo.Name, "/") {
		name := info.TZInfo.Name
		location = strings.ReplaceAll(name[strings.LastIndex(name, "/")+1:], "_", " ")
	}

	forecasts := p.Forecasts
	if len(forecasts) > requestedDays {
		forecasts = forecasts[:requestedDays]
	}

	days := make([]Day, 0, len(forecasts))
	for i, fd := range forecasts {
		part := fd.Parts.Day
		if part == nil {
			part = fd.Parts.DayShort
		}
		if part == nil {
			part = &YandexDayPart{}
		}

		tempAvg := part.TempAvg
		feelsLike := part.FeelsLike

		// Current conditions are more accurate for today.
		if i == 0 && p.Fact != nil {
			if p.Fact.Temp != nil {
				tempAvg = p.Fact.Temp
			}
			if p.Fact.FeelsLike != nil {
				feelsLike = p.Fact.FeelsLike
			}
		}

		avg := 0
		if tempAvg != nil {
			avg = roundTemp(*tempAvg)
		}

		var tempMax *float64
		if fd.Parts.DayShort != nil {
			tempMax = fd.Parts.DayShort.TempMax
		}

		condition := part.Condition
		if condition == "" {
			condition = "clear"
		}
		cond := LookupCondition(condition)

		day := Day{
			Date: fd.Date,
			Temperature: Temperature{
				Day:       avg,
				Min:       deriveTemp(part.TempMin, avg-3),
				Max:       deriveTemp(tempMax, avg+3),
				FeelsLike: deriveTemp(feelsLike, avg),
			},
			Weather: Conditions{
				Main:        titleCase(condition),
				Description: cond.Description,
				Icon:        cond.Icon,
			},
			Humidity:      intPtr(50),
			Pressure:      intPtr(760),
			WindSpeed:     floatPtr(0),
			Clouds:        intPtr(cond.Clouds),
			WindDirection: strPtr("n"),
		}

		if part.Humidity != nil {
			day.Humidity = part.Humidity
		}
		if part.PressureMM != nil {
			day.Pressure = part.PressureMM
		}
		if part.WindSpeed != nil {
			day.WindSpeed = part.WindSpeed
		}
		if part.WindDir != "" {
			day.WindDirection = strPtr(part.WindDir)
		}

		days = append(days, day)
	}

	return Document{
		Location:     location,
		Country:      "RU",
		Coordinates:  fmt.Sprintf("%g, %g", info.Lat, info.Lon),
		ForecastDays: len(days),
		Forecast:     days,
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		DataSource:   SourceYandex,
	}
}

// NormalizeOpenMeteo converts the parallel daily arrays into the canonical
// document. Open-Meteo carries no place names, humidity, pressure, cloud or
// wind-direction data; those fields stay absent.
func NormalizeOpenMeteo(p *OpenMeteoPayload, requestedDays int, lat, lon float64, now time.Time) Document {
	daily := p.Daily

	n := len(daily.Time)
	if n > requestedDays {
		n = requestedDays
	}

	days := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		minT := at(daily.TemperatureMin, i)
		maxT := at(daily.TemperatureMax, i)

		day := Day{
			Date: daily.Time[i],
			Temperature: Temperature{
				Day:       meanTemp(minT, maxT),
				Min:       deriveTemp(minT, 0),
				Max:       deriveTemp(maxT, 0),
				FeelsLike: meanTemp(minT, maxT),
			},
			Weather: Conditions{
				Main:        "N/A",
				Description: "daily aggregate, no condition data",
				Icon:        fallbackIcon,
			},
		}

		if ws := at(daily.WindSpeedMax, i); ws != nil {
			day.WindSpeed = ws
		}

		days = append(days, day)
	}

	return Document{
		Location:     fmt.Sprintf("%.3f, %.3f", lat, lon),
		Coordinates:  fmt.Sprintf("%g, %g", lat, lon),
		ForecastDays: len(days),
		Forecast:     days,
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		DataSource:   SourceOpenMeteo,
	}
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

func roundTemp(v float64) int {
	return int(math.Round(v))
}

func deriveTemp(v *float64, fallback int) int {
	if v == nil {
		return fallback
	}
	return roundTemp(*v)
}

// meanTemp averages whichever of min/max are present; 0 when both are
// missing.
func meanTemp(minT, maxT *float64) int {
	switch {
	case minT != nil && maxT != nil:
		return roundTemp((*minT + *maxT) / 2)
	case minT != nil:
		return roundTemp(*minT)
	case maxT != nil:
		return roundTemp(*maxT)
	default:
		return 0
	}
}

// titleCase uppercases the first letter of every word, where words are
// separated by any non-letter ("partly-cloudy" -> "Partly-Cloudy").
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) && !prevLetter {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
