// Package weather wraps the external weather provider. Calls are plain
// request/response with no state; any transport or decode failure is
// returned to the caller, who treats the location as having no data for
// this cycle.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Conditions are current observations at a coordinate. Absent payload fields
// keep their zero value; Pressure defaults to 1013 hPa when the provider
// omits it so classification stays total.
type Conditions struct {
	WindSpeed   float64 // km/h
	Rainfall3h  float64 // mm over the last 3 hours
	Temperature float64 // Celsius
	Humidity    float64 // percent
	Pressure    float64 // hPa
}

// Forecast is a short-term series of projected conditions.
type Forecast struct {
	Entries []ForecastEntry
}

type ForecastEntry struct {
	Time       time.Time
	Rainfall3h float64
}

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type currentResponse struct {
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		ThreeHour float64 `json:"3h"`
	} `json:"rain"`
	Main struct {
		Temp     float64  `json:"temp"`
		Humidity float64  `json:"humidity"`
		Pressure *float64 `json:"pressure"`
	} `json:"main"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Rain struct {
			ThreeHour float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
}

// Current fetches current conditions at the coordinate.
func (c *Client) Current(ctx context.Context, lat, lng float64) (*Conditions, error) {
	var data currentResponse
	if err := c.get(ctx, "/weather", lat, lng, &data); err != nil {
		return nil, err
	}

	cond := &Conditions{
		WindSpeed:   data.Wind.Speed,
		Rainfall3h:  data.Rain.ThreeHour,
		Temperature: data.Main.Temp,
		Humidity:    data.Main.Humidity,
		Pressure:    1013,
	}
	if data.Main.Pressure != nil {
		cond.Pressure = *data.Main.Pressure
	}
	return cond, nil
}

// Forecast fetches the short-term forecast series at the coordinate.
func (c *Client) Forecast(ctx context.Context, lat, lng float64) (*Forecast, error) {
	var data forecastResponse
	if err := c.get(ctx, "/forecast", lat, lng, &data); err != nil {
		return nil, err
	}

	f := &Forecast{Entries: make([]ForecastEntry, 0, len(data.List))}
	for _, e := range data.List {
		f.Entries = append(f.Entries, ForecastEntry{
			Time:       time.Unix(e.Dt, 0),
			Rainfall3h: e.Rain.ThreeHour,
		})
	}
	return f, nil
}

func (c *Client) get(ctx context.Context, path string, lat, lng float64, out any) error {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lng))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding resp.Body: %w", err)
	}
	return nil
}
