package forecast

// ConditionInfo describes one Yandex weather condition code.
type ConditionInfo struct {
	Description string
	Icon        string
	Clouds      int
}

// Fallbacks for condition codes the catalog does not know.
const (
	fallbackIcon   = "🌤️"
	fallbackClouds = 50
)

var conditionCatalog = map[string]ConditionInfo{
	"clear":                  {"ясно", "☀️", 10},
	"partly-cloudy":          {"малооблачно", "⛅", 30},
	"cloudy":                 {"облачно", "☁️", 70},
	"overcast":               {"пасмурно", "☁️", 100},
	"light-rain":             {"небольшой дождь", "🌦️", 80},
	"rain":                   {"дождь", "🌧️", 90},
	"heavy-rain":             {"сильный дождь", "🌧️", 100},
	"showers":                {"ливень", "🌧️", 90},
	"wet-snow":               {"дождь со снегом", "🌨️", 90},
	"light-snow":             {"небольшой снег", "❄️", 80},
	"snow":                   {"снег", "❄️", 90},
	"snow-showers":           {"снегопад", "🌨️", 100},
	"hail":                   {"град", "🌨️", 100},
	"thunderstorm":           {"гроза", "⛈️", 90},
	"thunderstorm-with-rain": {"дождь с грозой", "⛈️", 95},
	"thunderstorm-with-hail": {"гроза с градом", "⛈️", 100},
}

// LookupCondition resolves a provider condition code. Unknown codes get the
// raw code as description, a generic icon, and 50% clouds.
func LookupCondition(code string) ConditionInfo {
	if info, ok := conditionCatalog[code]; ok {
		return info
	}
	return ConditionInfo{Description: code, Icon: fallbackIcon, Clouds: fallbackClouds}
}
