package weather

// Current is the normalized view of a current-conditions response.
// Temperatures are rounded to whole degrees Celsius, wind is m/s.
type Current struct {
	City          string
	Temperature   int
	FeelsLike     int
	Description   string
	Humidity      int
	WindSpeed     float64
	Pressure      float64
	WindDir       string
	ConditionCode int
}

// DailyForecast is one day of a multi-day forecast.
type DailyForecast struct {
	Date          string // "2006-01-02" as reported by the provider
	MinTemp       int
	MaxTemp       int
	AvgTemp       int
	Description   string
	ConditionCode int
	MaxWind       float64 // m/s
	AvgHumidity   int
	RainChance    int // percent
	SnowChance    int // percent
	Sunrise       string
	Sunset        string
}

// Wire types below mirror the weatherapi.com JSON payloads; only the
// consumed fields are declared.

type currentResponse struct {
	Location locationPayload `json:"location"`
	Current  currentPayload  `json:"current"`
}

type locationPayload struct {
	Name string `json:"name"`
}

type currentPayload struct {
	TempC      float64          `json:"temp_c"`
	FeelsLikeC float64          `json:"feelslike_c"`
	Condition  conditionPayload `json:"condition"`
	Humidity   int              `json:"humidity"`
	WindKph    float64          `json:"wind_kph"`
	PressureMb float64          `json:"pressure_mb"`
	WindDir    string           `json:"wind_dir"`
}

type conditionPayload struct {
	Text string `json:"text"`
	Code int    `json:"code"`
}

type forecastResponse struct {
	Location locationPayload `json:"location"`
	Forecast struct {
		ForecastDay []forecastDayPayload `json:"forecastday"`
	} `json:"forecast"`
}

type forecastDayPayload struct {
	Date string `json:"date"`
	Day  struct {
		MaxTempC          float64          `json:"maxtemp_c"`
		MinTempC          float64          `json:"mintemp_c"`
		AvgTempC          float64          `json:"avgtemp_c"`
		MaxWindKph        float64          `json:"maxwind_kph"`
		AvgHumidity       float64          `json:"avghumidity"`
		DailyChanceOfRain int              `json:"daily_chance_of_rain"`
		DailyChanceOfSnow int              `json:"daily_chance_of_snow"`
		Condition         conditionPayload `json:"condition"`
	} `json:"day"`
	Astro struct {
		Sunrise string `json:"sunrise"`
		Sunset  string `json:"sunset"`
	} `json:"astro"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
