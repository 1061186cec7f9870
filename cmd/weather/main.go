package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/bobby-s-dev/weather-maps/internal/config"
	"github.com/bobby-s-dev/weather-maps/internal/logger"
	"github.com/bobby-s-dev/weather-maps/internal/models"
	"github.com/bobby-s-dev/weather-maps/pkg/client"
	"go.uber.org/zap"
)

// printer renders results for a terminal.
type printer struct {
	out    io.Writer
	failed bool
}

func (p *printer) OnWeatherUpdated(record models.WeatherRecord) {
	category := record.ConditionCategory()
	fmt.Fprintf(p.out, "%s: %s°C %s (%s)\n",
		record.CityName(), record.TemperatureString(), category, category.Icon())
}

func (p *printer) OnFetchFailed(err error) {
	p.failed = true
	fmt.Fprintf(p.out, "error: %v\n", err)
}

var errNoLocation = errors.New("either -city or both -lat and -lon are required")

// parseQuery reads a query from the command line. Coordinates count only
// when both flags were given explicitly.
func parseQuery(fs *flag.FlagSet, args []string) (models.WeatherQuery, error) {
	city := fs.String("city", "", "city name")
	lat := fs.Float64("lat", 0, "latitude")
	lon := fs.Float64("lon", 0, "longitude")
	if err := fs.Parse(args); err != nil {
		return models.WeatherQuery{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	switch {
	case set["city"]:
		return models.ByCity(*city), nil
	case set["lat"] && set["lon"]:
		return models.ByCoordinates(*lat, *lon), nil
	}
	return models.WeatherQuery{}, errNoLocation
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	query, err := parseQuery(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		if errors.Is(err, errNoLocation) {
			fmt.Fprintln(fs.Output(), err)
			fs.Usage()
		}
		os.Exit(2)
	}

	logger := logger.New(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.NewOpenWeatherClient(cfg.ClientConfig(), logger)
	p := &printer{out: os.Stdout}
	(<-c.FetchAsync(ctx, query)).Dispatch(p)

	if p.failed {
		logger.Sync()
		os.Exit(1)
	}
}
