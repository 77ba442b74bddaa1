package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"mad-sand/internal/sims/sand"
	"mad-sand/internal/sims/sand/scenes"
	"mad-sand/internal/sweep"
)

func main() {
	sceneName := flag.String("scene", "volcano", "scene to run")
	frames := flag.Int("frames", 600, "frames to simulate per case")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel cases")
	width := flag.Int("w", 192, "grid width")
	height := flag.Int("h", 144, "grid height")
	seed := flag.Int64("seed", 1337, "seed shared by every case")
	sizes := flag.String("regions", "8,16,32", "comma separated region sizes")
	sleeps := flag.String("sleeps", "0,10,30,60", "comma separated sleep thresholds")
	top := flag.Int("top", 5, "results to print")
	verbose := flag.Bool("v", false, "log every case")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	scene, ok := scenes.Lookup(*sceneName)
	if !ok {
		log.Error("unknown scene", "scene", *sceneName)
		os.Exit(2)
	}
	regionSizes, err := parseInts(*sizes)
	if err != nil {
		log.Error("bad -regions", "err", err)
		os.Exit(2)
	}
	sleepFrames, err := parseInts(*sleeps)
	if err != nil {
		log.Error("bad -sleeps", "err", err)
		os.Exit(2)
	}

	base := sand.DefaultConfig()
	base.Width, base.Height, base.Seed = *width, *height, *seed

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cases := sweep.Grid(regionSizes, sleepFrames)
	fmt.Printf("Sweeping %d cases on %s %dx%d (%d workers, %d frames)\n", len(cases), scene.Name, *width, *height, *workers, *frames)

	start := time.Now()
	results, err := sweep.Runner{Scene: scene, Base: base, Frames: *frames, Workers: *workers, Log: log}.Run(ctx, cases)
	if err != nil {
		log.Error("sweep", "err", err)
		os.Exit(1)
	}

	fmt.Printf("\nTop %d results (elapsed %s):\n", min(*top, len(results)), time.Since(start).Round(time.Millisecond))
	for i := 0; i < len(results) && i < *top; i++ {
		res := results[i]
		fmt.Printf("%2d) %-20s frame=%-10s active=%6.1f/%d updates=%8.1f final=%d\n",
			i+1, res.Case, res.MeanFrame, res.MeanActive, res.TotalRegions, res.MeanUpdates, res.FinalActive)
	}
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}
