// Package sim plays simulated sessions against the evaluator.
package sim

import (
	"context"
	"fmt"
	"runtime"

	mstats "github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/settei/internal/generator"
	"github.com/verte-zerg/settei/internal/model"
	"github.com/verte-zerg/settei/internal/report"
)

// Point is the evaluation at one checkpoint of a simulated session.
type Point struct {
	Observation model.Observation
	Broad       float64
	Narrow      float64
	Posterior   model.Posterior
}

// Summary describes the distribution of a final goal probability across trials.
type Summary struct {
	Mean   float64
	StdDev float64
	P10    float64
	P50    float64
	P90    float64
}

// Result is the outcome of a simulation run.
type Result struct {
	Setting     model.Setting
	Config      model.SimConfig
	Path        []Point
	Broad       Summary
	Narrow      Summary
	BroadStars  [6]int
	NarrowStars [6]int
}

type trial struct {
	broad, narrow           float64
	broadStars, narrowStars int
}

// Run plays one recorded session and cfg.Trials independent sessions of the
// chosen setting. Trial i is seeded with cfg.Seed+i, so results do not depend
// on the worker count.
func Run(ctx context.Context, b *report.Builder, cfg model.SimConfig) (Result, error) {
	setting, ok := b.Machine().Setting(cfg.Setting)
	if !ok {
		return Result{}, fmt.Errorf("unknown setting %q", cfg.Setting)
	}
	if cfg.Spins <= 0 {
		return Result{}, fmt.Errorf("spins must be > 0")
	}
	if cfg.Trials <= 0 {
		return Result{}, fmt.Errorf("trials must be > 0")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	res := Result{Setting: setting, Config: cfg}
	p := setting.Prob()
	for _, obs := range generator.NewSeeded(cfg.Seed).Trajectory(p, cfg.Spins, cfg.Step) {
		r := b.Evaluate(obs.Spins, obs.Hits)
		res.Path = append(res.Path, Point{
			Observation: obs,
			Broad:       r.Broad.Probability,
			Narrow:      r.Narrow.Probability,
			Posterior:   r.Posterior,
		})
	}

	trials := make([]trial, cfg.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range trials {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hits := generator.NewSeeded(cfg.Seed+int64(i)).Play(p, cfg.Spins)
			r := b.Evaluate(cfg.Spins, hits)
			trials[i] = trial{
				broad:       r.Broad.Probability,
				narrow:      r.Narrow.Probability,
				broadStars:  r.Broad.Rating.Stars,
				narrowStars: r.Narrow.Rating.Stars,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("simulation aborted: %w", err)
	}

	broad := make(mstats.Float64Data, len(trials))
	narrow := make(mstats.Float64Data, len(trials))
	for i, t := range trials {
		broad[i] = t.broad
		narrow[i] = t.narrow
		res.BroadStars[t.broadStars]++
		res.NarrowStars[t.narrowStars]++
	}
	var err error
	if res.Broad, err = summarize(broad); err != nil {
		return Result{}, fmt.Errorf("failed to summarize broad goal: %w", err)
	}
	if res.Narrow, err = summarize(narrow); err != nil {
		return Result{}, fmt.Errorf("failed to summarize narrow goal: %w", err)
	}
	return res, nil
}

func summarize(data mstats.Float64Data) (Summary, error) {
	var s Summary
	var err error
	if s.Mean, err = mstats.Mean(data); err != nil {
		return Summary{}, err
	}
	if s.StdDev, err = mstats.StandardDeviation(data); err != nil {
		return Summary{}, err
	}
	// Nearest rank keeps small trial counts valid.
	if s.P10, err = mstats.PercentileNearestRank(data, 10); err != nil {
		return Summary{}, err
	}
	if s.P50, err = mstats.Median(data); err != nil {
		return Summary{}, err
	}
	if s.P90, err = mstats.PercentileNearestRank(data, 90); err != nil {
		return Summary{}, err
	}
	return s, nil
}
