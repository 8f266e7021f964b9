package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/i474232898/weather-etl/internal/common"
	"github.com/i474232898/weather-etl/internal/weather"
)

func TestSaveBatchWritesHeaderAndRowsInOrder(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "weather_data.csv")

	batch := &weather.RawWeatherBatch{
		Time:        []string{"2024-01-01T00:00", "2024-01-01T01:00", "2024-01-01T02:00"},
		Temperature: []*float64{common.Float(20), common.Float(13.4), nil},
		Humidity:    []*float64{common.Float(50), common.Float(40.5), common.Float(61)},
		WindSpeed:   []*float64{common.Float(10), nil, common.Float(7.25)},
	}

	n, err := NewCSVStore().SaveBatch(context.Background(), path, batch)
	is.NoErr(err)
	is.Equal(n, 3)

	b, err := os.ReadFile(path)
	is.NoErr(err)
	is.Equal(string(b), strings.Join([]string{
		"Time,Temperature,Humidity,Wind Speed",
		"2024-01-01T00:00,20.0,50.0,10.0",
		"2024-01-01T01:00,13.4,40.5,",
		"2024-01-01T02:00,,61.0,7.25",
		"",
	}, "\n"))
}

func TestSaveBatchNilWritesNothing(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "weather_data.csv")

	_, err := NewCSVStore().SaveBatch(context.Background(), path, nil)
	is.True(errors.Is(err, weather.ErrNoData))

	_, err = os.Stat(path)
	is.True(errors.Is(err, fs.ErrNotExist)) // file must not be created
}

func TestSaveBatchKeepsExistingFileWhenNil(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "weather_data.csv")
	is.NoErr(os.WriteFile(path, []byte("previous"), 0o644))

	_, err := NewCSVStore().SaveBatch(context.Background(), path, nil)
	is.True(errors.Is(err, weather.ErrNoData))

	b, err := os.ReadFile(path)
	is.NoErr(err)
	is.Equal(string(b), "previous")
}

func TestSaveBatchRejectsRaggedSeries(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "weather_data.csv")

	batch := &weather.RawWeatherBatch{
		Time:        []string{"t0", "t1"},
		Temperature: []*float64{common.Float(1)},
		Humidity:    []*float64{common.Float(1), common.Float(2)},
		WindSpeed:   []*float64{common.Float(1), common.Float(2)},
	}

	_, err := NewCSVStore().SaveBatch(context.Background(), path, batch)
	is.True(errors.Is(err, weather.ErrRaggedBatch))

	_, err = os.Stat(path)
	is.True(errors.Is(err, fs.ErrNotExist))
}

func TestLoadRecordsRoundTrip(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "table.csv")
	s := NewCSVStore()

	in := []weather.WeatherRecord{
		{Time: "t0", Temperature: common.Float(20), Humidity: common.Float(50), WindSpeed: common.Float(10)},
		{Time: "t1", Temperature: nil, Humidity: common.Float(33.3), WindSpeed: nil},
	}
	is.NoErr(s.SaveRecords(ctx, path, in))

	out, err := s.LoadRecords(ctx, path)
	is.NoErr(err)
	is.Equal(len(out), 2)
	is.Equal(out[0].Time, "t0")
	is.Equal(*out[0].Temperature, 20.0)
	is.Equal(out[1].Temperature, nil)
	is.Equal(*out[1].Humidity, 33.3)
	is.Equal(out[1].WindSpeed, nil)
}

func TestLoadRecordsTreatsUnparsableCellsAsMissing(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "table.csv")
	content := "Wind Speed,Time,Humidity,Temperature\n" +
		"12.5,t0,NaN,abc\n" +
		"\"3\",\"t,1\",,21\n"
	is.NoErr(os.WriteFile(path, []byte(content), 0o644))

	out, err := NewCSVStore().LoadRecords(context.Background(), path)
	is.NoErr(err)
	is.Equal(len(out), 2)

	is.Equal(out[0].Temperature, nil)
	is.Equal(out[0].Humidity, nil)
	is.Equal(*out[0].WindSpeed, 12.5)

	is.Equal(out[1].Time, "t,1") // quoted cells keep their commas
	is.Equal(*out[1].Temperature, 21.0)
	is.Equal(*out[1].WindSpeed, 3.0)
}

func TestLoadRecordsErrors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		is := is.New(t)
		_, err := NewCSVStore().LoadRecords(ctx, filepath.Join(dir, "nope.csv"))
		is.True(errors.Is(err, fs.ErrNotExist))
	})

	t.Run("empty file", func(t *testing.T) {
		is := is.New(t)
		path := filepath.Join(dir, "empty.csv")
		is.NoErr(os.WriteFile(path, nil, 0o644))

		_, err := NewCSVStore().LoadRecords(ctx, path)
		is.True(errors.Is(err, ErrMissingHeader))
	})

	t.Run("missing column", func(t *testing.T) {
		is := is.New(t)
		path := filepath.Join(dir, "partial.csv")
		is.NoErr(os.WriteFile(path, []byte("Time,Temperature,Humidity\nt0,1,2\n"), 0o644))

		_, err := NewCSVStore().LoadRecords(ctx, path)
		is.True(errors.Is(err, ErrMissingColumn))
	})
}

func TestFormatValue(t *testing.T) {
	is := is.New(t)

	is.Equal(formatValue(nil), "")
	is.Equal(formatValue(common.Float(20)), "20.0")
	is.Equal(formatValue(common.Float(-3)), "-3.0")
	is.Equal(formatValue(common.Float(13.4)), "13.4")
	is.Equal(formatValue(common.Float(23.333333333333332)), "23.333333333333332")
}
