package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
)

// weatherapi.com error code for "no matching location found".
const codeNoLocation = 1006

var (
	// ErrCityNotFound means the provider does not know the requested city.
	ErrCityNotFound = errors.New("city not found")
	// ErrProvider covers every other provider failure: transport errors,
	// non-200 statuses and malformed payloads. Callers treat it uniformly
	// as "no data available now"; there is no retry.
	ErrProvider = errors.New("weather provider unavailable")
)

// Client queries weatherapi.com. A single attempt is made per call;
// the injected http.Client's timeout is the only deadline.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// New creates a Client. baseURL may be empty, in which case the public
// API endpoint is used.
func New(httpc *http.Client, apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.weatherapi.com/v1"
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, httpc: httpc}
}

// CurrentByCity fetches current conditions for a city by name.
func (c *Client) CurrentByCity(ctx context.Context, city string) (*Current, error) {
	return c.current(ctx, city)
}

// CurrentByCoords fetches current conditions for a latitude/longitude pair.
func (c *Client) CurrentByCoords(ctx context.Context, lat, lon float64) (*Current, error) {
	q := strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lon, 'f', 4, 64)
	return c.current(ctx, q)
}

func (c *Client) current(ctx context.Context, q string) (*Current, error) {
	var resp currentResponse
	if err := c.get(ctx, "/current.json", q, nil, &resp); err != nil {
		return nil, err
	}
	return &Current{
		City:          resp.Location.Name,
		Temperature:   roundC(resp.Current.TempC),
		FeelsLike:     roundC(resp.Current.FeelsLikeC),
		Description:   resp.Current.Condition.Text,
		Humidity:      resp.Current.Humidity,
		WindSpeed:     KphToMs(resp.Current.WindKph),
		Pressure:      resp.Current.PressureMb,
		WindDir:       resp.Current.WindDir,
		ConditionCode: resp.Current.Condition.Code,
	}, nil
}

// Forecast fetches a days-long daily forecast for a city.
func (c *Client) Forecast(ctx context.Context, city string, days int) ([]DailyForecast, error) {
	extra := url.Values{}
	extra.Set("days", strconv.Itoa(days))

	var resp forecastResponse
	if err := c.get(ctx, "/forecast.json", city, extra, &resp); err != nil {
		return nil, err
	}
	out := make([]DailyForecast, 0, len(resp.Forecast.ForecastDay))
	for _, fd := range resp.Forecast.ForecastDay {
		out = append(out, DailyForecast{
			Date:          fd.Date,
			MinTemp:       roundC(fd.Day.MinTempC),
			MaxTemp:       roundC(fd.Day.MaxTempC),
			AvgTemp:       roundC(fd.Day.AvgTempC),
			Description:   fd.Day.Condition.Text,
			ConditionCode: fd.Day.Condition.Code,
			MaxWind:       KphToMs(fd.Day.MaxWindKph),
			AvgHumidity:   roundC(fd.Day.AvgHumidity),
			RainChance:    fd.Day.DailyChanceOfRain,
			SnowChance:    fd.Day.DailyChanceOfSnow,
			Sunrise:       fd.Astro.Sunrise,
			Sunset:        fd.Astro.Sunset,
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path, q string, extra url.Values, dst any) error {
	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("q", q)
	values.Set("lang", "ru")
	for k, vs := range extra {
		for _, v := range vs {
			values.Add(k, v)
		}
	}

	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil &&
			apiErr.Error.Code == codeNoLocation {
			return ErrCityNotFound
		}
		return fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrProvider, err)
	}
	return nil
}

// KphToMs converts kilometers per hour to meters per second.
func KphToMs(kph float64) float64 {
	return kph / 3.6
}

func roundC(v float64) int {
	return int(math.Round(v))
}
