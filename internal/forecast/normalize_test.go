package forecast

import (
	"encoding/json"
	"testing"
	"time"
)

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

func testNow() time.Time {
	return time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
}

func yandexFixture() *YandexPayload {
	return &YandexPayload{
		Info: YandexInfo{
			Lat:    55.75,
			Lon:    37.62,
			TZInfo: &YandexTZInfo{Name: "Europe/Moscow"},
		},
		Fact: &YandexFact{
			Temp:      f64(21),
			FeelsLike: f64(19),
		},
		Forecasts: []YandexForecastDay{
			{
				Date: "2025-06-10",
				Parts: YandexParts{
					Day: &YandexDayPart{
						TempAvg:    f64(18),
						TempMin:    f64(12),
						FeelsLike:  f64(17),
						Condition:  "partly-cloudy",
						Humidity:   i(65),
						PressureMM: i(752),
						WindSpeed:  f64(3.4),
						WindDir:    "sw",
					},
					DayShort: &YandexDayPart{TempMax: f64(23)},
				},
			},
			{
				Date: "2025-06-11",
				Parts: YandexParts{
					Day: &YandexDayPart{
						TempAvg:   f64(20),
						Condition: "rain",
					},
				},
			},
			{
				Date:  "2025-06-12",
				Parts: YandexParts{},
			},
		},
	}
}

func TestNormalizeYandexLocationFromTimezone(t *testing.T) {
	doc := NormalizeYandex(yandexFixture(), 3, testNow())

	if doc.Location != "Moscow" {
		t.Errorf("expected Moscow, got %q", doc.Location)
	}
	if doc.DataSource != SourceYandex {
		t.Errorf("unexpected data source %q", doc.DataSource)
	}
}

func TestNormalizeYandexLocationFallback(t *testing.T) {
	p := yandexFixture()
	p.Info.TZInfo = nil

	doc := NormalizeYandex(p, 3, testNow())
	if doc.Location != "55.750, 37.620" {
		t.Errorf("expected coordinate fallback, got %q", doc.Location)
	}
}

func TestNormalizeYandexUnderscoreTimezone(t *testing.T) {
	p := yandexFixture()
	p.Info.TZInfo = &YandexTZInfo{Name: "America/New_York"}

	doc := NormalizeYandex(p, 3, testNow())
	if doc.Location != "New York" {
		t.Errorf("expected New York, got %q", doc.Location)
	}
}

func TestNormalizeYandexFactOverridesFirstDay(t *testing.T) {
	doc := NormalizeYandex(yandexFixture(), 3, testNow())

	first := doc.Forecast[0]
	if first.Temperature.Day != 21 {
		t.Errorf("expected fact temp 21 for today, got %d", first.Temperature.Day)
	}
	if first.Temperature.FeelsLike != 19 {
		t.Errorf("expected fact feels-like 19, got %d", first.Temperature.FeelsLike)
	}

	second := doc.Forecast[1]
	if second.Temperature.Day != 20 {
		t.Errorf("fact must not leak into later days, got %d", second.Temperature.Day)
	}
}

func TestNormalizeYandexTemperatureDefaults(t *testing.T) {
	doc := NormalizeYandex(yandexFixture(), 3, testNow())

	// Day 2 has avg=20 and nothing else.
	second := doc.Forecast[1]
	if second.Temperature.Min != 17 {
		t.Errorf("expected min avg-3=17, got %d", second.Temperature.Min)
	}
	if second.Temperature.Max != 23 {
		t.Errorf("expected max avg+3=23, got %d", second.Temperature.Max)
	}
	if second.Temperature.FeelsLike != 20 {
		t.Errorf("expected feels-like avg=20, got %d", second.Temperature.FeelsLike)
	}

	// Day 3 has no data at all: avg defaults to 0 before derivations.
	third := doc.Forecast[2]
	if third.Temperature.Day != 0 || third.Temperature.Min != -3 || third.Temperature.Max != 3 || third.Temperature.FeelsLike != 0 {
		t.Errorf("expected defaulted temperatures 0/-3/3/0, got %+v", third.Temperature)
	}
}

func TestNormalizeYandexAmbientDefaults(t *testing.T) {
	doc := NormalizeYandex(yandexFixture(), 3, testNow())

	first := doc.Forecast[0]
	if *first.Humidity != 65 || *first.Pressure != 752 || *first.WindSpeed != 3.4 || *first.WindDirection != "sw" {
		t.Errorf("expected source values on day 1, got %+v", first)
	}

	second := doc.Forecast[1]
	if *second.Humidity != 50 || *second.Pressure != 760 || *second.WindSpeed != 0 || *second.WindDirection != "n" {
		t.Errorf("expected defaults 50/760/0/n on day 2, got %+v", second)
	}
	if *second.Clouds != 90 {
		t.Errorf("expected clouds 90 for rain, got %d", *second.Clouds)
	}
}

func TestNormalizeYandexConditionLabels(t *testing.T) {
	doc := NormalizeYandex(yandexFixture(), 3, testNow())

	first := doc.Forecast[0]
	if first.Weather.Main != "Partly-Cloudy" {
		t.Errorf("expected title-cased code, got %q", first.Weather.Main)
	}
	if first.Weather.Description != "малооблачно" || first.Weather.Icon != "⛅" {
		t.Errorf("unexpected condition mapping: %+v", first.Weather)
	}
}

func TestNormalizeYandexTruncatesToRequestedDays(t *testing.T) {
	doc := NormalizeYandex(yandexFixture(), 2, testNow())

	if doc.ForecastDays != 2 || len(doc.Forecast) != 2 {
		t.Errorf("expected 2 days, got forecast_days=%d len=%d", doc.ForecastDays, len(doc.Forecast))
	}
}

func TestNormalizeYandexIdempotent(t *testing.T) {
	now := testNow()
	a, err := json.Marshal(NormalizeYandex(yandexFixture(), 3, now))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(NormalizeYandex(yandexFixture(), 3, now))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("normalization is not deterministic")
	}
}

func openMeteoFixture() *OpenMeteoPayload {
	return &OpenMeteoPayload{
		Daily: OpenMeteoDaily{
			Time:           []string{"2025-06-10", "2025-06-11", "2025-06-12"},
			TemperatureMax: []*float64{f64(24), nil, f64(20)},
			TemperatureMin: []*float64{f64(14), f64(12), nil},
			WindSpeedMax:   []*float64{f64(18.5), nil, f64(9)},
		},
	}
}

func TestNormalizeOpenMeteo(t *testing.T) {
	doc := NormalizeOpenMeteo(openMeteoFixture(), 3, 55.75, 37.62, testNow())

	if doc.DataSource != SourceOpenMeteo {
		t.Errorf("unexpected data source %q", doc.DataSource)
	}
	if doc.Location != "55.750, 37.620" {
		t.Errorf("unexpected location %q", doc.Location)
	}
	if doc.ForecastDays != 3 || len(doc.Forecast) != 3 {
		t.Fatalf("expected 3 days, got %d/%d", doc.ForecastDays, len(doc.Forecast))
	}

	first := doc.Forecast[0]
	if first.Temperature.Day != 19 || first.Temperature.Min != 14 || first.Temperature.Max != 24 || first.Temperature.FeelsLike != 19 {
		t.Errorf("unexpected day 1 temperatures: %+v", first.Temperature)
	}
	if *first.WindSpeed != 18.5 {
		t.Errorf("expected wind 18.5, got %v", *first.WindSpeed)
	}

	// Missing max at index 1: max is 0, mean is the present min.
	second := doc.Forecast[1]
	if second.Temperature.Max != 0 || second.Temperature.Day != 12 {
		t.Errorf("unexpected day 2 temperatures: %+v", second.Temperature)
	}
	if second.WindSpeed != nil {
		t.Error("expected absent wind on day 2")
	}

	// Missing min at index 2.
	third := doc.Forecast[2]
	if third.Temperature.Min != 0 || third.Temperature.Day != 20 {
		t.Errorf("unexpected day 3 temperatures: %+v", third.Temperature)
	}
}

func TestNormalizeOpenMeteoNoSecondarySourcedFields(t *testing.T) {
	doc := NormalizeOpenMeteo(openMeteoFixture(), 3, 55.75, 37.62, testNow())

	for _, d := range doc.Forecast {
		if d.Humidity != nil || d.Pressure != nil || d.Clouds != nil || d.WindDirection != nil {
			t.Errorf("humidity/pressure/clouds/wind_direction must stay absent, got %+v", d)
		}
		if d.Weather.Main != "N/A" {
			t.Errorf("expected N/A weather label, got %q", d.Weather.Main)
		}
	}
}

func TestNormalizeOpenMeteoTruncation(t *testing.T) {
	doc := NormalizeOpenMeteo(openMeteoFixture(), 1, 0, 0, testNow())
	if doc.ForecastDays != 1 || len(doc.Forecast) != 1 {
		t.Errorf("expected truncation to 1 day, got %d", doc.ForecastDays)
	}
}

func TestNormalizeOpenMeteoEmptyPayload(t *testing.T) {
	doc := NormalizeOpenMeteo(&OpenMeteoPayload{}, 5, 1, 2, testNow())
	if doc.ForecastDays != 0 || len(doc.Forecast) != 0 {
		t.Errorf("expected empty forecast, got %d", doc.ForecastDays)
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"clear":                  "Clear",
		"partly-cloudy":          "Partly-Cloudy",
		"thunderstorm-with-rain": "Thunderstorm-With-Rain",
		"":                       "",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
