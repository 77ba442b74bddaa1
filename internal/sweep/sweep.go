// Package sweep measures how the activity tracker settings trade speed for
// liveness by running one scene under a grid of region sizes and sleep
// thresholds in parallel.
package sweep

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"mad-sand/internal/sims/sand"
	"mad-sand/internal/sims/sand/scenes"
)

// Case is one tracker configuration.
type Case struct {
	RegionSize  int
	SleepFrames int
}

func (c Case) String() string {
	return fmt.Sprintf("region=%d sleep=%d", c.RegionSize, c.SleepFrames)
}

// Result summarises a run of Frames steps.
type Result struct {
	Case
	Frames       int
	Total        time.Duration
	MeanFrame    time.Duration
	MeanActive   float64
	MeanUpdates  float64
	FinalActive  int
	TotalRegions int
}

// Grid returns every combination of sizes and sleeps.
func Grid(sizes, sleeps []int) []Case {
	out := make([]Case, 0, len(sizes)*len(sleeps))
	for _, size := range sizes {
		for _, sleep := range sleeps {
			out = append(out, Case{RegionSize: size, SleepFrames: sleep})
		}
	}
	return out
}

// Runner runs cases against a scene.
type Runner struct {
	Scene   scenes.Scene
	Base    sand.Config
	Frames  int
	Workers int
	Log     *slog.Logger
}

// Run evaluates cases concurrently and returns the results fastest first.
// Every case uses the same seed so runs differ only in tracker settings.
func (r Runner) Run(ctx context.Context, cases []Case) ([]Result, error) {
	log := r.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(cases))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range cases {
		g.Go(func() error {
			res, err := r.runCase(ctx, c, log)
			if err != nil {
				return fmt.Errorf("%s: %w", c, err)
			}
			results[i] = res
			log.Info("case done", "case", c.String(), "mean_frame", res.MeanFrame, "mean_active", res.MeanActive)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(a.MeanFrame, b.MeanFrame)
	})
	return results, nil
}

func (r Runner) runCase(ctx context.Context, c Case, log *slog.Logger) (Result, error) {
	if c.RegionSize < 1 || c.SleepFrames < 0 {
		return Result{}, fmt.Errorf("invalid tracker settings")
	}
	cfg := r.Base
	cfg.Params.RegionSize = c.RegionSize
	cfg.Params.SleepFrames = c.SleepFrames
	world := scenes.New(r.Scene, cfg, sand.WithLogger(log.With("case", c.String())))
	world.Reset(0)

	res := Result{Case: c, TotalRegions: world.Activity().Count()}
	var active, updates int
	for f := 0; f < r.Frames; f++ {
		if f%64 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		world.Step()
		st := world.Stats()
		res.Total += st.Duration
		active += st.ActiveRegions
		updates += st.Updates
		res.Frames++
	}
	if res.Frames > 0 {
		res.MeanFrame = res.Total / time.Duration(res.Frames)
		res.MeanActive = float64(active) / float64(res.Frames)
		res.MeanUpdates = float64(updates) / float64(res.Frames)
	}
	res.FinalActive = world.Activity().AwakeCount()
	return res, nil
}
