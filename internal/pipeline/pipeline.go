package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/shelter-data-etl/internal/domain"
	"github.com/couchcryptid/shelter-data-etl/internal/observability"
	"golang.org/x/sync/errgroup"
)

// FileParser reads one source file into raw records.
type FileParser interface {
	ParseFile(ctx context.Context, path string) ([]domain.RawRecord, error)
}

// Normalizer turns one raw record into a shelter record, reporting false when
// the row must be dropped.
type Normalizer interface {
	Normalize(raw domain.RawRecord, fileName string) (domain.Shelter, bool)
}

// Stats summarizes one pipeline run.
type Stats struct {
	FilesFound     int
	FilesFailed    int
	RecordsParsed  int
	RecordsDropped int
	Duplicates     int
	Invalid        int
	Produced       int
}

// Result is the output of a pipeline run.
type Result struct {
	Shelters []domain.Shelter
	Stats    Stats
}

// Pipeline parses every file in a directory, normalizes, deduplicates,
// optionally geocodes, and validates the records.
type Pipeline struct {
	parser     FileParser
	normalizer Normalizer
	geocoder   domain.Geocoder
	logger     *slog.Logger
	metrics    *observability.Metrics
	workers    int

	ready  atomic.Bool
	latest atomic.Pointer[Result]
}

// New creates a Pipeline. workers bounds how many files are parsed at once;
// a nil geocoder disables enrichment.
func New(parser FileParser, normalizer Normalizer, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		parser:     parser,
		normalizer: normalizer,
		geocoder:   geocoder,
		logger:     logger,
		metrics:    metrics,
		workers:    workers,
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Latest returns the shelters from the most recent successful run.
func (p *Pipeline) Latest() []domain.Shelter {
	r := p.latest.Load()
	if r == nil {
		return nil
	}
	return r.Shelters
}

// fileResult holds the normalized output of one source file.
type fileResult struct {
	shelters []domain.Shelter
	parsed   int
	dropped  int
	failed   bool
}

// Run processes every regular file in dir. Files are handled in lexical name
// order, so when two files list the same shelter the earlier file wins
// deduplication. A file that cannot be parsed contributes no records; only a
// failure to list dir is returned as an error.
func (p *Pipeline) Run(ctx context.Context, dir string) (Result, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	files, err := listFiles(dir)
	if err != nil {
		return Result{}, err
	}
	p.logger.Info("found source files", "dir", dir, "files", len(files))
	p.metrics.FilesFound.Add(float64(len(files)))

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, name := range files {
		g.Go(func() error {
			results[i] = p.processFile(gctx, dir, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var (
		stats  = Stats{FilesFound: len(files)}
		merged []domain.Shelter
	)
	for _, r := range results {
		if r.failed {
			stats.FilesFailed++
		}
		stats.RecordsParsed += r.parsed
		stats.RecordsDropped += r.dropped
		merged = append(merged, r.shelters...)
	}

	unique := domain.Dedupe(merged)
	stats.Duplicates = len(merged) - len(unique)
	p.metrics.DuplicateRecords.Add(float64(stats.Duplicates))
	p.logger.Info("removed duplicate entries", "duplicates", stats.Duplicates, "remaining", len(unique))

	// Records that fail the name/address rules are rejected below whatever
	// their location, so they are not sent to the geocoder.
	if p.geocoder != nil {
		for i := range unique {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			if domain.ValidateText(unique[i]) != nil {
				continue
			}
			unique[i] = domain.EnrichWithGeocoding(ctx, unique[i], p.geocoder, p.logger)
		}
	}

	valid := make([]domain.Shelter, 0, len(unique))
	for _, s := range unique {
		if err := domain.Validate(s); err != nil {
			p.metrics.InvalidRecords.WithLabelValues(domain.ReasonLabel(err)).Inc()
			p.logger.Debug("rejecting invalid shelter", "id", s.ID, "file", s.Source.OriginalFile, "reason", err)
			continue
		}
		valid = append(valid, s)
	}
	stats.Invalid = len(unique) - len(valid)
	stats.Produced = len(valid)
	p.logger.Info("removed invalid entries", "invalid", stats.Invalid, "remaining", len(valid))

	p.metrics.SheltersProduced.Add(float64(stats.Produced))
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())

	result := Result{Shelters: valid, Stats: stats}
	p.latest.Store(&result)
	p.ready.Store(true)

	p.logger.Info("pipeline run complete",
		"files", stats.FilesFound,
		"files_failed", stats.FilesFailed,
		"parsed", stats.RecordsParsed,
		"dropped", stats.RecordsDropped,
		"duplicates", stats.Duplicates,
		"invalid", stats.Invalid,
		"produced", stats.Produced,
		"duration", time.Since(start),
	)
	return result, nil
}

// processFile parses and normalizes one file. Errors are logged and counted,
// never returned, so one bad file cannot stop the batch.
func (p *Pipeline) processFile(ctx context.Context, dir, name string) fileResult {
	path := filepath.Join(dir, name)
	p.logger.Debug("processing file", "file", name)

	raws, err := p.parser.ParseFile(ctx, path)
	if err != nil {
		p.logger.Error("failed to parse file, skipping", "file", name, "error", err)
		p.metrics.FileErrors.WithLabelValues("parse").Inc()
		return fileResult{failed: true}
	}

	res := fileResult{
		shelters: make([]domain.Shelter, 0, len(raws)),
		parsed:   len(raws),
	}
	for _, raw := range raws {
		s, ok := p.normalizer.Normalize(raw, name)
		if !ok {
			res.dropped++
			continue
		}
		res.shelters = append(res.shelters, s)
	}

	p.metrics.RecordsParsed.Add(float64(res.parsed))
	p.metrics.RecordsDropped.Add(float64(res.dropped))
	p.logger.Info("processed file", "file", name, "records", res.parsed, "dropped", res.dropped)
	return res
}

// listFiles returns the names of regular, non-hidden files in dir in lexical
// order.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}
