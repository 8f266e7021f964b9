package weather

import (
	"math"

	"github.com/i474232898/weather-etl/internal/common"
)

// Summarize computes the descriptive statistics of a cleaned table.
// Missing values are skipped; a column without any present value yields NaN.
func Summarize(records []WeatherRecord) (SummaryReport, error) {
	if len(records) == 0 {
		return SummaryReport{}, ErrNoData
	}

	var temps, hums, winds []*float64
	for _, r := range records {
		temps = append(temps, r.Temperature)
		hums = append(hums, r.Humidity)
		winds = append(winds, r.WindSpeed)
	}

	t := common.Present(temps)
	report := SummaryReport{
		TotalRecords:   len(records),
		AvgTemperature: meanOrNaN(t),
		AvgHumidity:    meanOrNaN(common.Present(hums)),
		AvgWindSpeed:   meanOrNaN(common.Present(winds)),
		MaxTemperature: math.NaN(),
		MinTemperature: math.NaN(),
	}
	if lo, hi, ok := common.MinMax(t); ok {
		report.MinTemperature = lo
		report.MaxTemperature = hi
	}

	return report, nil
}

func meanOrNaN(values []float64) float64 {
	m, ok := common.Mean(values)
	if !ok {
		return math.NaN()
	}
	return m
}
