package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-etl/internal/weather"
)

var (
	// ErrMissingHeader is returned when a table has no header row.
	ErrMissingHeader = errors.New("table has no header row")

	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("table is missing a required column")
)

// CSVStore reads and writes weather tables as comma separated files.
type CSVStore struct{}

// NewCSVStore creates a new CSVStore.
func NewCSVStore() *CSVStore {
	return &CSVStore{}
}

// SaveBatch writes the header and one row per observation of batch to path,
// truncating any previous content. A nil batch is reported and nothing is written.
func (s *CSVStore) SaveBatch(ctx context.Context, path string, batch *weather.RawWeatherBatch) (int, error) {
	log := zerolog.Ctx(ctx)

	if batch == nil {
		log.Warn().Msg("no data available to save")
		return 0, weather.ErrNoData
	}

	records, err := batch.Records()
	if err != nil {
		return 0, err
	}

	if err := s.SaveRecords(ctx, path, records); err != nil {
		return 0, err
	}

	log.Info().Int("rows", len(records)).Msgf("weather data saved to %s", path)
	return len(records), nil
}

// SaveRecords writes records to path with the fixed header, truncating any
// previous content. Missing values are written as empty cells.
func (s *CSVStore) SaveRecords(ctx context.Context, path string, records []weather.WeatherRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := writeRecords(f, records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeRecords(w io.Writer, records []weather.WeatherRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(weather.Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.Time, formatValue(r.Temperature), formatValue(r.Humidity), formatValue(r.WindSpeed)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadRecords reads the table at path. Columns are located by header name;
// empty, unparsable and NaN numeric cells are read as missing values.
func (s *CSVStore) LoadRecords(ctx context.Context, path string) ([]weather.WeatherRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	records, err := readRecords(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Int("rows", len(records)).Msgf("loaded table %s", path)
	return records, nil
}

func readRecords(r io.Reader) ([]weather.WeatherRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range weather.Header {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	var out []weather.WeatherRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, weather.WeatherRecord{
			Time:        row[idx[weather.ColumnTime]],
			Temperature: parseValue(row[idx[weather.ColumnTemperature]]),
			Humidity:    parseValue(row[idx[weather.ColumnHumidity]]),
			WindSpeed:   parseValue(row[idx[weather.ColumnWindSpeed]]),
		})
	}
	return out, nil
}

func parseValue(cell string) *float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

// formatValue renders v the way the tables have always been written:
// shortest representation, with a trailing ".0" on integral values.
func formatValue(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return ""
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	if math.IsInf(*v, 0) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
