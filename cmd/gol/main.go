package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/outofforest/gol"
	"github.com/outofforest/gol/board"
	"github.com/outofforest/gol/codec"
	"github.com/outofforest/gol/pattern"
	"github.com/outofforest/gol/types"
	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

type options struct {
	Engine        string
	Pattern       string
	Generations   uint64
	Verify        bool
	Paste         bool
	Copy          bool
	WarnThreshold uint64
}

func main() {
	var opts options
	pflag.StringVar(&opts.Engine, "engine", gol.EngineHashLife.String(), "engine to use: direct or hashlife")
	pflag.StringVar(&opts.Pattern, "pattern", pattern.RPentomino, "built-in seed pattern")
	pflag.Uint64Var(&opts.Generations, "generations", 1000, "number of generations to compute")
	pflag.BoolVar(&opts.Verify, "verify", false, "run both engines side by side and compare results")
	pflag.BoolVar(&opts.Paste, "paste", false, "read seed region from standard input instead of using pattern")
	pflag.BoolVar(&opts.Copy, "copy", false, "write encoded final board to standard output")
	pflag.Uint64Var(&opts.WarnThreshold, "warn-threshold", 1_000_000,
		"maximum number of alive cells accepted from pasted region")
	pflag.Parse()

	ctx := logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig))
	if err := run(ctx, opts); err != nil {
		logger.Get(ctx).Error("Simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	log := logger.Get(ctx)

	seed, err := loadSeed(opts)
	if err != nil {
		return err
	}
	log.Info("Seed loaded", zap.Uint64("population", seed.Population()))

	if opts.Verify {
		return verify(ctx, seed, opts.Generations)
	}

	engine, err := gol.ParseEngine(opts.Engine)
	if err != nil {
		return err
	}

	sim, err := simulate(engine, seed, opts.Generations)
	if err != nil {
		return err
	}

	stats := sim.Stats()
	log.Info("Simulation finished",
		zap.Stringer("engine", engine),
		zap.Uint64("generation", sim.Generation()),
		zap.Uint64("population", sim.Board().Population()),
		zap.Uint64("nodes", stats.Nodes),
		zap.Uint64("memoized", stats.Advances+stats.Steps),
		zap.Uint64("collisions", stats.Collisions))

	if !opts.Copy {
		return nil
	}

	span, ok := sim.Board().Span()
	if !ok {
		_, err := os.Stdout.Write([]byte{0x00})
		return errors.WithStack(err)
	}
	bounds, ok := span.Rect()
	if !ok {
		return errors.Wrapf(codec.ErrTooLarge, "board of size %dx%d can't be copied", span.Width, span.Height)
	}
	data, err := sim.Copy(bounds)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return errors.WithStack(err)
}

func loadSeed(opts options) (*board.Board, error) {
	if !opts.Paste {
		return pattern.ByName(opts.Pattern)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	region, err := codec.Decode(data, opts.WarnThreshold)
	if err != nil {
		return nil, err
	}
	return region.Board, nil
}

func simulate(engine gol.Engine, seed *board.Board, generations uint64) (*gol.Simulation, error) {
	sim, err := gol.New(gol.Config{
		Engine: engine,
	})
	if err != nil {
		return nil, err
	}
	sim.Board().Insert(seed, types.Cell{})
	if err := sim.Step(generations); err != nil {
		return nil, err
	}
	return sim, nil
}

func verify(ctx context.Context, seed *board.Board, generations uint64) error {
	var direct, hashLife *gol.Simulation
	err := parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("direct", parallel.Continue, func(ctx context.Context) error {
			var err error
			direct, err = simulate(gol.EngineDirect, seed, generations)
			return err
		})
		spawn("hashlife", parallel.Continue, func(ctx context.Context) error {
			var err error
			hashLife, err = simulate(gol.EngineHashLife, seed, generations)
			return err
		})
		return nil
	})
	if err != nil {
		return err
	}

	if !direct.Board().Equal(hashLife.Board()) {
		return errors.Errorf("engines disagree after %d generations: direct population %d, hashlife population %d",
			generations, direct.Board().Population(), hashLife.Board().Population())
	}

	logger.Get(ctx).Info("Engines agree",
		zap.Uint64("generation", generations),
		zap.Uint64("population", direct.Board().Population()),
		zap.Uint64("nodes", hashLife.Stats().Nodes))
	return nil
}
