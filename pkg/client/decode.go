package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bobby-s-dev/weather-maps/internal/models"
)

// OpenWeatherCurrentResponse is the subset of /data/2.5/weather we rely on.
// Pointers distinguish a missing field from a zero value.
type OpenWeatherCurrentResponse struct {
	Name *string `json:"name"`
	Main *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather *[]struct {
		ID          *int    `json:"id"`
		Description *string `json:"description"`
	} `json:"weather"`
	Coord *struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	} `json:"coord"`
}

// Decode parses a current-weather payload into a WeatherRecord.
func Decode(data []byte) (models.WeatherRecord, error) {
	var response OpenWeatherCurrentResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return models.WeatherRecord{}, &DecodeError{Kind: MalformedJSON, Cause: err}
	}

	switch {
	case response.Name == nil:
		return models.WeatherRecord{}, missingField("name")
	case response.Main == nil || response.Main.Temp == nil:
		return models.WeatherRecord{}, missingField("main.temp")
	case response.Coord == nil || response.Coord.Lat == nil:
		return models.WeatherRecord{}, missingField("coord.lat")
	case response.Coord.Lon == nil:
		return models.WeatherRecord{}, missingField("coord.lon")
	case response.Weather == nil:
		return models.WeatherRecord{}, missingField("weather")
	}

	conditions := *response.Weather
	if len(conditions) == 0 {
		return models.WeatherRecord{}, &DecodeError{Kind: EmptyConditionList}
	}
	first := conditions[0]
	if first.ID == nil {
		return models.WeatherRecord{}, missingField("weather[0].id")
	}
	if first.Description == nil {
		return models.WeatherRecord{}, missingField("weather[0].description")
	}

	return models.NewWeatherRecord(
		*first.ID,
		*response.Name,
		*response.Main.Temp,
		*response.Coord.Lat,
		*response.Coord.Lon,
	), nil
}

func missingField(name string) *DecodeError {
	return &DecodeError{Kind: MalformedJSON, Cause: fmt.Errorf("missing field %q", name)}
}

// apiMessage pulls the "message" field out of an OpenWeatherMap error body.
func apiMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}

// AsDecodeError unwraps the DecodeError behind a DecodeFailed fetch error.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
