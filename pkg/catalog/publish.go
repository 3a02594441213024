package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/polyfill/pkg/async"
	"github.com/dmitrymomot/polyfill/pkg/logger"
)

// Publisher defaults.
const (
	DefaultPublishChunkSize   = 50
	DefaultPublishConcurrency = 4
)

// Source is a catalog that can be enumerated, such as an FSProvider.
type Source interface {
	Provider
	Lister
}

type publishConfig struct {
	chunkSize   int
	concurrency int
	logger      *slog.Logger
}

// PublishOption configures Publish.
type PublishOption func(*publishConfig)

// WithChunkSize sets how many records go into one backend write.
func WithChunkSize(n int) PublishOption {
	return func(c *publishConfig) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithPublishConcurrency bounds the number of chunks written at once.
func WithPublishConcurrency(n int) PublishOption {
	return func(c *publishConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithPublishLogger sets the logger used for progress reporting.
func WithPublishLogger(l *slog.Logger) PublishOption {
	return func(c *publishConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// PublishReport summarises a Publish run.
type PublishReport struct {
	Records int
	Aliases int
	// Skipped lists features whose metadata could not be read.
	Skipped []string
}

// Publish copies every feature of src, then its alias table, into dst.
// Features are written in chunks, several chunks at a time. A feature whose
// metadata is missing is skipped and reported; a missing minified variant
// falls back to the raw text. Any write failure aborts the run.
func Publish(ctx context.Context, src Source, dst Writer, opts ...PublishOption) (PublishReport, error) {
	cfg := publishConfig{
		chunkSize:   DefaultPublishChunkSize,
		concurrency: DefaultPublishConcurrency,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.logger.With(logger.Component("catalog.publish"))

	names, err := src.Names(ctx)
	if err != nil {
		return PublishReport{}, fmt.Errorf("list catalog: %w", err)
	}
	chunks := slices.Collect(slices.Chunk(names, cfg.chunkSize))

	var (
		written atomic.Int64
		mu      sync.Mutex
		skipped []string
	)
	err = async.ForEach(ctx, cfg.concurrency, chunks, func(ctx context.Context, chunk []string) error {
		records := make([]Record, 0, len(chunk))
		for _, name := range chunk {
			record, err := readRecord(ctx, src, name)
			if err != nil {
				log.WarnContext(ctx, "skipping feature", logger.Feature(name), logger.Error(err))
				mu.Lock()
				skipped = append(skipped, name)
				mu.Unlock()
				continue
			}
			records = append(records, record)
		}
		if err := dst.WriteRecords(ctx, records); err != nil {
			return fmt.Errorf("write chunk starting at %s: %w", chunk[0], err)
		}
		written.Add(int64(len(records)))
		log.DebugContext(ctx, "chunk written", logger.Count("records", len(records)))
		return nil
	})

	slices.Sort(skipped)
	report := PublishReport{Records: int(written.Load()), Skipped: skipped}
	if err != nil {
		return report, err
	}

	aliases, err := src.Aliases(ctx)
	if err != nil {
		return report, fmt.Errorf("read aliases: %w", err)
	}
	if err := dst.WriteAliases(ctx, aliases); err != nil {
		return report, fmt.Errorf("write aliases: %w", err)
	}
	report.Aliases = len(aliases)

	log.InfoContext(ctx, "catalog published",
		logger.Count("records", report.Records),
		logger.Count("aliases", report.Aliases),
		logger.Count("skipped", len(report.Skipped)))
	return report, nil
}

func readRecord(ctx context.Context, src Provider, name string) (Record, error) {
	meta, err := src.Meta(ctx, name)
	if err != nil {
		return Record{}, err
	}
	raw, err := src.Source(ctx, name, VariantRaw)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Record{}, err
	}
	minified, err := src.Source(ctx, name, VariantMin)
	if errors.Is(err, ErrNotFound) {
		minified = raw
	} else if err != nil {
		return Record{}, err
	}
	return Record{Name: name, Meta: meta, Raw: raw, Min: minified}, nil
}
