package forecast

// Data source labels carried in Document.DataSource.
const (
	SourceYandex    = "Yandex Weather API"
	SourceOpenMeteo = "Open-Meteo"
	SourceSynthetic = "synthetic"
)

// Temperature holds the per-day temperature readings in °C. Every field is
// always a concrete integer: missing upstream values are defaulted during
// normalization, never left null.
type Temperature struct {
	Day       int `json:"day"`
	Min       int `json:"min"`
	Max       int `json:"max"`
	FeelsLike int `json:"feels_like"`
}

type Conditions struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Day is one entry of the canonical forecast. The optional fields are nil
// when the data source has no such reading.
type Day struct {
	Date          string      `json:"date"`
	Temperature   Temperature `json:"temperature"`
	Weather       Conditions  `json:"weather"`
	Humidity      *int        `json:"humidity,omitempty"`
	Pressure      *int        `json:"pressure,omitempty"`
	WindSpeed     *float64    `json:"wind_speed,omitempty"`
	Clouds        *int        `json:"clouds,omitempty"`
	WindDirection *string     `json:"wind_direction,omitempty"`
}

// Document is the canonical forecast shape every path produces.
// ForecastDays always equals len(Forecast).
type Document struct {
	Location     string `json:"location"`
	Country      string `json:"country,omitempty"`
	Coordinates  string `json:"coordinates"`
	ForecastDays int    `json:"forecast_days"`
	Forecast     []Day  `json:"forecast"`
	GeneratedAt  string `json:"generated_at"`
	DataSource   string `json:"data_source"`
	Note         string `json:"note,omitempty"`
	RequestID    string `json:"req_id,omitempty"`
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
