package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Settings carries everything a pipeline run needs besides its collaborators.
type Settings struct {
	Query     Query
	RawPath   string
	CleanPath string

	// Rules defaults to DefaultRules when empty.
	Rules []ValidationRule

	// Out receives the summary block. Defaults to os.Stdout.
	Out io.Writer
}

// Service runs the fetch, write, clean and summarize stages in order.
type Service struct {
	store    Store
	provider Provider
	settings Settings
}

// NewService creates a new Service.
func NewService(store Store, provider Provider, settings Settings) *Service {
	if len(settings.Rules) == 0 {
		settings.Rules = DefaultRules()
	}
	if settings.Out == nil {
		settings.Out = os.Stdout
	}
	return &Service{
		store:    store,
		provider: provider,
		settings: settings,
	}
}

// Run executes the pipeline once. Upstream unavailability and empty tables
// end the run early with a nil error; the returned report tells which stage
// stopped it. Transport and file system failures are returned as errors.
func (s *Service) Run(ctx context.Context) (RunReport, error) {
	report := RunReport{RunID: uuid.NewString()}

	logger := zerolog.Ctx(ctx).With().Str("run_id", report.RunID).Logger()
	ctx = logger.WithContext(ctx)

	batch, err := s.Fetch(ctx)
	switch {
	case err == nil:
		report.record(logger, StageFetch, OutcomeOK, batch.Len(), nil)
	case errors.Is(err, ErrUpstreamUnavailable):
		report.record(logger, StageFetch, OutcomeFailed, 0, err)
	default:
		report.record(logger, StageFetch, OutcomeFailed, 0, err)
		return report, fmt.Errorf("fetch from %s: %w", s.provider.Name(), err)
	}

	rows, err := s.Write(ctx, batch, s.settings.RawPath)
	if errors.Is(err, ErrNoData) {
		report.record(logger, StageWrite, OutcomeEmpty, 0, err)
		return report, nil
	}
	if err != nil {
		report.record(logger, StageWrite, OutcomeFailed, 0, err)
		return report, err
	}
	report.record(logger, StageWrite, OutcomeOK, rows, nil)

	res, err := s.Clean(ctx, s.settings.RawPath, s.settings.CleanPath)
	if err != nil {
		report.record(logger, StageClean, OutcomeFailed, 0, err)
		return report, err
	}
	outcome := OutcomeOK
	if res.Kept == 0 {
		outcome = OutcomeEmpty
	}
	report.record(logger, StageClean, outcome, res.Kept, nil)

	summary, err := s.Summarize(ctx, s.settings.CleanPath)
	if errors.Is(err, ErrNoData) {
		report.record(logger, StageSummarize, OutcomeEmpty, 0, err)
		return report, nil
	}
	if err != nil {
		report.record(logger, StageSummarize, OutcomeFailed, 0, err)
		return report, err
	}
	report.record(logger, StageSummarize, OutcomeOK, summary.TotalRecords, nil)
	report.Summary = &summary

	if err := summary.Print(s.settings.Out); err != nil {
		return report, fmt.Errorf("print summary: %w", err)
	}
	return report, nil
}

// Fetch asks the provider for the configured hourly series. A nil batch is
// returned together with an error wrapping ErrUpstreamUnavailable when the
// upstream answered without usable data.
func (s *Service) Fetch(ctx context.Context) (*RawWeatherBatch, error) {
	log := zerolog.Ctx(ctx)

	batch, err := s.provider.FetchHourly(ctx, s.settings.Query)
	if err != nil {
		if errors.Is(err, ErrUpstreamUnavailable) {
			log.Warn().Err(err).Str("provider", s.provider.Name()).Msg("unable to fetch weather data")
		}
		return nil, err
	}

	log.Debug().Str("provider", s.provider.Name()).Int("rows", batch.Len()).Msg("fetched hourly weather data")
	return &batch, nil
}

// Write persists a fetched batch at path and returns the number of data rows written.
func (s *Service) Write(ctx context.Context, batch *RawWeatherBatch, path string) (int, error) {
	return s.store.SaveBatch(ctx, path, batch)
}

// Clean reads the table at inputPath, applies Clean with the configured
// rules and writes the result to outputPath.
func (s *Service) Clean(ctx context.Context, inputPath, outputPath string) (CleanResult, error) {
	log := zerolog.Ctx(ctx)

	records, err := s.store.LoadRecords(ctx, inputPath)
	if err != nil {
		return CleanResult{}, fmt.Errorf("clean %s: %w", inputPath, err)
	}

	cleaned, res, err := Clean(records, s.settings.Rules)
	if err != nil {
		return res, fmt.Errorf("clean %s: %w", inputPath, err)
	}
	if res.Kept == 0 && res.Input > 0 {
		log.Warn().Int("dropped", res.Dropped).Msg("no rows passed validation; writing header only")
	}

	if err := s.store.SaveRecords(ctx, outputPath, cleaned); err != nil {
		return res, fmt.Errorf("clean %s: %w", inputPath, err)
	}

	log.Info().
		Int("kept", res.Kept).
		Int("dropped", res.Dropped).
		Interface("imputed", res.Imputed).
		Msgf("cleaned data saved to %s", outputPath)
	return res, nil
}

// Summarize reads the table at path and computes its SummaryReport.
func (s *Service) Summarize(ctx context.Context, path string) (SummaryReport, error) {
	records, err := s.store.LoadRecords(ctx, path)
	if err != nil {
		return SummaryReport{}, fmt.Errorf("summarize %s: %w", path, err)
	}

	summary, err := Summarize(records)
	if errors.Is(err, ErrNoData) {
		zerolog.Ctx(ctx).Warn().Msg("no data available to summarize")
	}
	return summary, err
}

func (r *RunReport) record(log zerolog.Logger, stage string, outcome Outcome, rows int, err error) {
	r.Stages = append(r.Stages, StageResult{Stage: stage, Outcome: outcome, Rows: rows, Err: err})
	log.Debug().Str("stage", stage).Str("outcome", string(outcome)).Int("rows", rows).AnErr("cause", err).Msg("stage finished")
}
