package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobby-s-dev/weather-maps/internal/services"
	"github.com/bobby-s-dev/weather-maps/pkg/client"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("q") == "New York":
			fmt.Fprint(w, `{"name":"New York","main":{"temp":-3.25},"weather":[{"id":601,"description":"snow"}],"coord":{"lat":40.71,"lon":-74.01}}`)
		case q.Get("lat") == "51.5":
			fmt.Fprint(w, `{"name":"London","main":{"temp":20},"weather":[{"id":803,"description":"broken clouds"}],"coord":{"lat":51.5,"lon":-0.1}}`)
		case q.Get("q") == "Garbage":
			fmt.Fprint(w, `{"name":"Garbage","weather":[]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"cod":"404","message":"city not found"}`)
		}
	}))
	t.Cleanup(upstream.Close)

	logger := zaptest.NewLogger(t)
	c := client.NewOpenWeatherClient(client.ClientConfig{APIKey: "k", BaseURL: upstream.URL}, logger)
	svc := services.NewWeatherService(c, logger)

	app := fiber.New()
	SetupRoutes(app, NewHandler(svc, logger), logger)
	return app
}

func doGet(t *testing.T, app *fiber.App, target string) (int, map[string]interface{}) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded), string(body))
	return resp.StatusCode, decoded
}

func TestGetCurrentWeatherByCity(t *testing.T) {
	app := newTestApp(t)

	status, body := doGet(t, app, "/api/v1/weather?city=New%20York")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "New York", body["city"])
	assert.Equal(t, "-3.3", body["temperature_string"])
	assert.Equal(t, "snow", body["condition"])
	assert.Equal(t, "cloud.snow", body["icon"])
	assert.Equal(t, float64(601), body["condition_id"])
}

func TestGetCurrentWeatherByCoordinates(t *testing.T) {
	app := newTestApp(t)

	status, body := doGet(t, app, "/api/v1/weather?lat=51.5&lon=-0.1")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "London", body["city"])
	assert.Equal(t, "20.0", body["temperature_string"])
	assert.Equal(t, "thunderstorm", body["condition"])
}

func TestGetCurrentWeatherErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
		kind   string
	}{
		{"no parameters", "/api/v1/weather", http.StatusBadRequest, "invalid_query"},
		{"bad latitude", "/api/v1/weather?lat=north&lon=1", http.StatusBadRequest, "invalid_query"},
		{"latitude out of range", "/api/v1/weather?lat=95&lon=1", http.StatusBadRequest, "invalid_query"},
		{"unknown city", "/api/v1/weather?city=Atlantis", http.StatusNotFound, "http_error"},
		{"bad payload", "/api/v1/weather?city=Garbage", http.StatusBadGateway, "decode_failed"},
	}

	app := newTestApp(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			status, body := doGet(t, app, tt.target)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.kind, body["kind"])
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestMetricsAndHealth(t *testing.T) {
	app := newTestApp(t)

	doGet(t, app, "/api/v1/weather?city=New%20York")
	doGet(t, app, "/api/v1/weather?city=Atlantis")

	status, body := doGet(t, app, "/api/v1/metrics")
	assert.Equal(t, http.StatusOK, status)
	metrics := body["metrics"].(map[string]interface{})
	assert.Equal(t, float64(1), metrics["success_count"])
	assert.Equal(t, float64(1), metrics["failure_count"])

	status, body = doGet(t, app, "/api/v1/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestUnknownRoute(t *testing.T) {
	status, body := doGet(t, newTestApp(t), "/nope")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "/nope", body["path"])
}
