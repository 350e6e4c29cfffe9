package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bitfield/pkg/bitfield"
	"github.com/matzehuels/bitfield/pkg/cache"
	"github.com/matzehuels/bitfield/pkg/observability"
)

// Runner executes requests against a cache.
//
// A Runner holds no per-request state; one instance can serve concurrent
// requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer becomes the default keyer, a nil
// cache disables caching and a nil logger uses log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute decodes, renders and serializes one request.
func (r *Runner) Execute(ctx context.Context, req Request) (*Result, error) {
	req.SetDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Render().OnRenderStart(ctx, req.InputFormat, req.Formats)
	result, err := r.execute(ctx, req)
	lanes := 0
	if result != nil {
		result.Stats.RenderTime = time.Since(start)
		lanes = result.Stats.Lanes
	}
	observability.Render().OnRenderComplete(ctx, req.Formats, lanes, time.Since(start), err)
	return result, err
}

func (r *Runner) execute(ctx context.Context, req Request) (*Result, error) {
	reg, opts, err := Decode(req.Source, req.InputFormat)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	req.Overrides.Apply(&opts)

	root, err := bitfield.Render(reg, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result := &Result{
		Scene:     root,
		Artifacts: make(map[string][]byte, len(req.Formats)),
		Stats:     stats(reg, opts),
	}
	r.Logger.Debug("rendered register",
		"fields", result.Stats.Fields,
		"lanes", result.Stats.Lanes,
		"bits", result.Stats.TotalBits)

	sourceHash := cache.Hash(req.Source)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range req.Formats {
		g.Go(func() error {
			data, hit, err := r.artifact(gctx, req, sourceHash, format, result)
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			mu.Lock()
			defer mu.Unlock()
			result.Artifacts[format] = data
			if hit {
				result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.Logger.Info("rendered outputs",
		"formats", req.Formats,
		"cached", len(result.CacheInfo.Hits))
	return result, nil
}

// artifactParams are the request inputs that change an artifact besides
// its source and format.
type artifactParams struct {
	Overrides Overrides `json:"overrides"`
	Scale     float64   `json:"scale,omitempty"`
}

// artifact returns one serialized format, from the cache when possible.
func (r *Runner) artifact(ctx context.Context, req Request, sourceHash, format string, result *Result) ([]byte, bool, error) {
	params := artifactParams{Overrides: req.Overrides}
	if format == FormatPNG {
		params.Scale = req.Scale
	}
	key := r.Keyer.ArtifactKey(sourceHash, cache.ArtifactKeyOpts{
		InputFormat: req.InputFormat,
		Format:      format,
		Overrides:   params,
	})

	if !req.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		} else if hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	data, err := Serialize(ctx, format, result.Scene, req.Scale)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
