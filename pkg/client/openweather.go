package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/bobby-s-dev/weather-maps/internal/models"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Records are always Celsius.
const defaultUnits = "metric"

// OpenWeatherClient fetches current conditions from OpenWeatherMap.
// It keeps no per-fetch state, so concurrent fetches are independent.
type OpenWeatherClient struct {
	*BaseClient
	apiKey  string
	baseURL string
}

// Result is what an asynchronous fetch delivers: a record or an error, never both.
type Result struct {
	Query  models.WeatherQuery
	Record models.WeatherRecord
	Err    error
}

// Listener is implemented by whatever presents results to a user.
type Listener interface {
	OnWeatherUpdated(record models.WeatherRecord)
	OnFetchFailed(err error)
}

// Dispatch hands the result to the matching Listener callback.
func (r Result) Dispatch(l Listener) {
	if r.Err != nil {
		l.OnFetchFailed(r.Err)
		return
	}
	l.OnWeatherUpdated(r.Record)
}

func NewOpenWeatherClient(config ClientConfig, logger *zap.Logger) *OpenWeatherClient {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenWeatherClient{
		BaseClient: NewBaseClient("openweather", config, logger),
		apiKey:     config.APIKey,
		baseURL:    baseURL,
	}
}

// BuildURL returns the current-weather request URL for q.
func (c *OpenWeatherClient) BuildURL(q models.WeatherQuery) (string, error) {
	if err := q.Validate(); err != nil {
		return "", invalidQuery(err)
	}

	u, err := url.Parse(c.baseURL + "/weather")
	if err != nil {
		return "", invalidQuery(err)
	}

	params := url.Values{}
	params.Set("appid", c.apiKey)
	params.Set("units", defaultUnits)
	switch q.Kind {
	case models.QueryByCity:
		params.Set("q", q.City)
	case models.QueryByCoordinates:
		params.Set("lat", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	}
	// Spaces go out as %20 rather than "+".
	u.RawQuery = strings.ReplaceAll(params.Encode(), "+", "%20")

	return u.String(), nil
}

// Fetch performs one request for q and decodes the reply.
func (c *OpenWeatherClient) Fetch(ctx context.Context, q models.WeatherQuery) (models.WeatherRecord, error) {
	requestURL, err := c.BuildURL(q)
	if err != nil {
		return models.WeatherRecord{}, err
	}
	return c.fetch(ctx, requestURL)
}

func (c *OpenWeatherClient) fetch(ctx context.Context, requestURL string) (models.WeatherRecord, error) {
	resp, err := c.Get(ctx, requestURL)
	if err != nil {
		return models.WeatherRecord{}, transportError(err)
	}

	if resp.status < 200 || resp.status > 299 {
		return models.WeatherRecord{}, &FetchError{
			Kind:    HTTPError,
			Status:  resp.status,
			Message: apiMessage(resp.body),
		}
	}

	record, err := Decode(resp.body)
	if err != nil {
		return models.WeatherRecord{}, &FetchError{Kind: DecodeFailed, Cause: err}
	}
	return record, nil
}

// FetchAsync starts a fetch for q and returns a channel that receives exactly
// one Result. Invalid queries are reported on the channel without any request.
func (c *OpenWeatherClient) FetchAsync(ctx context.Context, q models.WeatherQuery) <-chan Result {
	results := make(chan Result, 1)

	requestURL, err := c.BuildURL(q)
	if err != nil {
		results <- Result{Query: q, Err: err}
		close(results)
		return results
	}

	go func() {
		defer close(results)
		record, err := c.fetch(ctx, requestURL)
		results <- Result{Query: q, Record: record, Err: err}
	}()

	return results
}

func (c *OpenWeatherClient) FetchByCity(ctx context.Context, name string) <-chan Result {
	return c.FetchAsync(ctx, models.ByCity(name))
}

func (c *OpenWeatherClient) FetchByCoordinates(ctx context.Context, lat, lon float64) <-chan Result {
	return c.FetchAsync(ctx, models.ByCoordinates(lat, lon))
}

// redact hides the API key in logged URLs.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	params := u.Query()
	if params.Has("appid") {
		params.Set("appid", "REDACTED")
		u.RawQuery = params.Encode()
	}
	return u.String()
}
