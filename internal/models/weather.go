package models

// WeatherReport is the result of one successful current-weather lookup.
//
// TemperatureC and FeelsLikeC carry whatever scale the client's unit system
// selects; the names do not imply a conversion.
type WeatherReport struct {
	City         string         `json:"city"`
	Description  string         `json:"description"`
	TemperatureC float64        `json:"temperature_c"`
	FeelsLikeC   float64        `json:"feels_like_c"`
	Humidity     int            `json:"humidity"`
	Raw          map[string]any `json:"raw"`
}
