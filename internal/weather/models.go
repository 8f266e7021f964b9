package weather

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNoData is returned by a stage that was handed nothing to work on.
	ErrNoData = errors.New("no data available")

	// ErrRaggedBatch is returned when the hourly series differ in length.
	ErrRaggedBatch = errors.New("hourly series have different lengths")
)

// Column names of the tabular files, in file order.
const (
	ColumnTime        = "Time"
	ColumnTemperature = "Temperature"
	ColumnHumidity    = "Humidity"
	ColumnWindSpeed   = "Wind Speed"
)

// Header is the fixed header row of both the raw and the cleaned table.
var Header = []string{ColumnTime, ColumnTemperature, ColumnHumidity, ColumnWindSpeed}

// RawWeatherBatch is the `hourly` object of an Open-Meteo forecast response.
// Position i across all four series describes one observation. A nil entry
// is a value the API reported as null.
type RawWeatherBatch struct {
	Time        []string   `json:"time"`
	Temperature []*float64 `json:"temperature_2m"`
	Humidity    []*float64 `json:"relative_humidity_2m"`
	WindSpeed   []*float64 `json:"wind_speed_10m"`
}

// Len returns the number of observations in the batch.
func (b RawWeatherBatch) Len() int {
	return len(b.Time)
}

// Validate checks that all four series have the same length.
func (b RawWeatherBatch) Validate() error {
	n := len(b.Time)
	if len(b.Temperature) != n || len(b.Humidity) != n || len(b.WindSpeed) != n {
		return fmt.Errorf("%w: time=%d temperature=%d humidity=%d wind=%d",
			ErrRaggedBatch, n, len(b.Temperature), len(b.Humidity), len(b.WindSpeed))
	}
	return nil
}

// Records materializes the batch as rows, preserving order.
func (b RawWeatherBatch) Records() ([]WeatherRecord, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	out := make([]WeatherRecord, 0, b.Len())
	for i := range b.Time {
		out = append(out, WeatherRecord{
			Time:        b.Time[i],
			Temperature: b.Temperature[i],
			Humidity:    b.Humidity[i],
			WindSpeed:   b.WindSpeed[i],
		})
	}
	return out, nil
}

// WeatherRecord is one row of the tabular files. Nil numeric fields are missing values.
type WeatherRecord struct {
	Time        string
	Temperature *float64
	Humidity    *float64
	WindSpeed   *float64
}

// field returns a pointer to the numeric field stored under the given column name.
func (r *WeatherRecord) field(column string) **float64 {
	switch column {
	case ColumnTemperature:
		return &r.Temperature
	case ColumnHumidity:
		return &r.Humidity
	case ColumnWindSpeed:
		return &r.WindSpeed
	default:
		return nil
	}
}

// ValidationRule is an inclusive numeric interval for one column.
type ValidationRule struct {
	Field string
	Min   float64
	Max   float64
}

// DefaultRules returns the fixed validation intervals.
func DefaultRules() []ValidationRule {
	return []ValidationRule{
		{Field: ColumnTemperature, Min: 0, Max: 60},
		{Field: ColumnHumidity, Min: 0, Max: 80},
		{Field: ColumnWindSpeed, Min: 3, Max: 150},
	}
}

// SummaryReport holds the descriptive statistics of a cleaned table.
// Max/Min are only computed for temperature.
type SummaryReport struct {
	TotalRecords   int
	AvgTemperature float64
	MaxTemperature float64
	MinTemperature float64
	AvgHumidity    float64
	AvgWindSpeed   float64
}

// Print writes the summary block, one metric per line with two decimals.
func (s SummaryReport) Print(w io.Writer) error {
	lines := []struct {
		label string
		value float64
	}{
		{"Total Records", float64(s.TotalRecords)},
		{"Avg Temperature", s.AvgTemperature},
		{"Max Temperature", s.MaxTemperature},
		{"Min Temperature", s.MinTemperature},
		{"Avg Humidity", s.AvgHumidity},
		{"Avg Wind Speed", s.AvgWindSpeed},
	}

	if _, err := fmt.Fprintln(w, "\nWeather Data Summary"); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %.2f\n", l.label, l.value); err != nil {
			return err
		}
	}
	return nil
}

// CleanResult describes what the cleaner did to a table.
type CleanResult struct {
	Input   int
	Kept    int
	Dropped int
	// Imputed counts filled values per column.
	Imputed map[string]int
}

// Outcome reports how a pipeline stage finished.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeEmpty  Outcome = "empty"
	OutcomeFailed Outcome = "failed"
)

// Stage names used in StageResult.
const (
	StageFetch     = "fetch"
	StageWrite     = "write"
	StageClean     = "clean"
	StageSummarize = "summarize"
)

// StageResult is the typed outcome of a single pipeline stage.
type StageResult struct {
	Stage   string
	Outcome Outcome
	Rows    int
	Err     error
}

// RunReport collects the stage results of one pipeline execution.
type RunReport struct {
	RunID   string
	Stages  []StageResult
	Summary *SummaryReport
}

// Stage returns the result recorded for the named stage, if the stage ran.
func (r RunReport) Stage(name string) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return StageResult{}, false
}
