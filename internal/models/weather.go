package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

type QueryKind int

const (
	QueryByCity QueryKind = iota + 1
	QueryByCoordinates
)

// WeatherQuery selects a location either by city name or by coordinates.
// Build it with ByCity or ByCoordinates.
type WeatherQuery struct {
	Kind      QueryKind
	City      string
	Latitude  float64
	Longitude float64
}

func ByCity(name string) WeatherQuery {
	return WeatherQuery{Kind: QueryByCity, City: name}
}

func ByCoordinates(lat, lon float64) WeatherQuery {
	return WeatherQuery{Kind: QueryByCoordinates, Latitude: lat, Longitude: lon}
}

func (q WeatherQuery) Validate() error {
	switch q.Kind {
	case QueryByCity:
		if strings.TrimSpace(q.City) == "" {
			return errors.New("city name is empty")
		}
		if !utf8.ValidString(q.City) {
			return errors.New("city name is not valid UTF-8")
		}
		return nil
	case QueryByCoordinates:
		if !finite(q.Latitude) || q.Latitude < -90 || q.Latitude > 90 {
			return fmt.Errorf("latitude %v out of range [-90,90]", q.Latitude)
		}
		if !finite(q.Longitude) || q.Longitude < -180 || q.Longitude > 180 {
			return fmt.Errorf("longitude %v out of range [-180,180]", q.Longitude)
		}
		return nil
	default:
		return errors.New("query has no city or coordinates")
	}
}

func (q WeatherQuery) String() string {
	if q.Kind == QueryByCoordinates {
		return strconv.FormatFloat(q.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(q.Longitude, 'f', -1, 64)
	}
	return q.City
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// WeatherRecord is the decoded current-weather observation. It is read-only
// once built; derived display fields are computed on every call.
type WeatherRecord struct {
	conditionID int
	cityName    string
	temperature float64
	lat, lon    float64
}

// NewWeatherRecord is used by the response decoder; every field must already be known.
func NewWeatherRecord(conditionID int, cityName string, temperature, lat, lon float64) WeatherRecord {
	return WeatherRecord{
		conditionID: conditionID,
		cityName:    cityName,
		temperature: temperature,
		lat:         lat,
		lon:         lon,
	}
}

func (r WeatherRecord) ConditionID() int { return r.conditionID }
func (r WeatherRecord) CityName() string { return r.cityName }
func (r WeatherRecord) Temperature() float64 { return r.temperature }
func (r WeatherRecord) Lat() float64 { return r.lat }
func (r WeatherRecord) Lon() float64 { return r.lon }
func (r WeatherRecord) ConditionCategory() Category { return Classify(r.conditionID) }

// TemperatureString renders the temperature in Celsius with one decimal,
// rounding halves away from zero.
func (r WeatherRecord) TemperatureString() string {
	rounded := math.Round(r.temperature*10) / 10
	if rounded == 0 {
		rounded = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}

type weatherRecordJSON struct {
	City              string   `json:"city"`
	ConditionID       int      `json:"condition_id"`
	Condition         Category `json:"condition"`
	Icon              string   `json:"icon"`
	Temperature       float64  `json:"temperature"`
	TemperatureString string   `json:"temperature_string"`
	Lat               float64  `json:"lat"`
	Lon               float64  `json:"lon"`
}

func (r WeatherRecord) MarshalJSON() ([]byte, error) {
	category := r.ConditionCategory()
	return json.Marshal(weatherRecordJSON{
		City:              r.cityName,
		ConditionID:       r.conditionID,
		Condition:         category,
		Icon:              category.Icon(),
		Temperature:       r.temperature,
		TemperatureString: r.TemperatureString(),
		Lat:               r.lat,
		Lon:               r.lon,
	})
}
