package config

// Config is built once at process start and passed by reference into the
// services. Nothing reads configuration ambiently after startup.
type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Weather     WeatherConfig   `mapstructure:"weather"`
	Forecast    ForecastConfig  `mapstructure:"forecast"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// WeatherConfig configures the stage-2 upstream providers. An empty APIKey,
// or the literal "mock", disables the keyed provider.
type WeatherConfig struct {
	APIKey       string `mapstructure:"api_key"`
	YandexURL    string `mapstructure:"yandex_url"`
	OpenMeteoURL string `mapstructure:"openmeteo_url"`
	Timeout      int    `mapstructure:"timeout"`
}

// ForecastConfig tells stage 1 how to reach stage 2: either a direct URL,
// or a function ID invoked through the platform API endpoint.
type ForecastConfig struct {
	URL         string `mapstructure:"url"`
	FunctionID  string `mapstructure:"function_id"`
	APIEndpoint string `mapstructure:"api_endpoint"`
	IAMToken    string `mapstructure:"iam_token"`
	MetadataURL string `mapstructure:"metadata_url"`
	Timeout     int    `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Enabled reports whether enough of the connection settings are present to
// attempt a write. An incomplete database block silently disables telemetry.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != "" && c.Name != "" && c.User != "" && c.Password != ""
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Weather: WeatherConfig{
			APIKey:       "",
			YandexURL:    "https://api.weather.yandex.ru",
			OpenMeteoURL: "https://api.open-meteo.com",
			Timeout:      8,
		},
		Forecast: ForecastConfig{
			URL:         "",
			FunctionID:  "",
			APIEndpoint: "https://functions.yandexcloud.net",
			IAMToken:    "",
			MetadataURL: "http://169.254.169.254/computeMetadata/v1/instance/service-accounts/default/token",
			Timeout:     8,
		},
		Database: DatabaseConfig{
			Host:     "",
			Port:     6432,
			Name:     "",
			User:     "",
			Password: "",
			SSLMode:  "require",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
