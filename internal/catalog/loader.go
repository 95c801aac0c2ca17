package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"catalogo/internal"
	"catalogo/internal/config"
)

type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

type Source struct {
	Origin   internal.Origin
	Location string
}

func DefaultSources(cfg config.Config) []Source {
	return []Source{
		{Origin: internal.OriginCD1, Location: cfg.CD1Source},
		{Origin: internal.OriginZMM045, Location: cfg.ZMM045Source},
	}
}

type Loader struct {
	fetcher Fetcher
	log     zerolog.Logger
	now     func() time.Time
}

func NewLoader(fetcher Fetcher, log zerolog.Logger) *Loader {
	return &Loader{fetcher: fetcher, log: log, now: time.Now}
}

// Load fetches every source concurrently and only returns a catalog when all
// of them were read and decoded. Records keep source order.
func (l *Loader) Load(ctx context.Context, sources []Source) (*internal.Catalog, error) {
	if len(sources) == 0 {
		return nil, errors.New("no dataset sources configured")
	}
	for _, src := range sources {
		if !KnownOrigin(src.Origin) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOrigin, src.Origin)
		}
	}

	traceID := uuid.NewString()
	log := l.log.With().Str("trace_id", traceID).Logger()
	start := l.now()
	log.Info().Int("sources", len(sources)).Msg("catalog load started")

	parts := make([][]internal.Record, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			body, err := l.fetcher.Fetch(gctx, src.Location)
			if err != nil {
				return fmt.Errorf("load %s: %w", src.Origin, err)
			}
			rows, skipped, err := decodeRows(body)
			if err != nil {
				return fmt.Errorf("load %s: %w", src.Origin, err)
			}
			if skipped > 0 {
				log.Warn().Str("origin", string(src.Origin)).Int("skipped", skipped).Msg("non-object dataset elements skipped")
			}
			records, err := AdaptAll(src.Origin, rows)
			if err != nil {
				return err
			}
			parts[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("catalog load failed")
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	cat := &internal.Catalog{
		Records:  make([]internal.Record, 0, total),
		TraceID:  traceID,
		LoadedAt: l.now().UTC(),
		Counts:   map[internal.Origin]int{},
	}
	for i, p := range parts {
		cat.Records = append(cat.Records, p...)
		cat.Counts[sources[i].Origin] += len(p)
	}
	cat.Facets = BuildFacets(cat.Records)

	log.Info().
		Int("records", len(cat.Records)).
		Int("facets", len(cat.Facets)).
		Dur("elapsed", l.now().Sub(start)).
		Msg("catalog load complete")
	return cat, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeRows expects a JSON array and returns its object elements. Elements
// that are not objects are dropped and counted.
func decodeRows(body []byte) ([]map[string]any, int, error) {
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(body, utf8BOM)))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("decode dataset: %w", err)
	}
	items, ok := doc.([]any)
	if !ok {
		return nil, 0, errors.New("decode dataset: top-level value is not an array")
	}

	out := make([]map[string]any, 0, len(items))
	skipped := 0
	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		out = append(out, row)
	}
	return out, skipped, nil
}
