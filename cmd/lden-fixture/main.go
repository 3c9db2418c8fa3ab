// Command lden-fixture writes a synthetic project with Day, Evening and
// Night computations that the lden command can aggregate.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/okian/lden/internal/adapters/repository"
	"github.com/okian/lden/internal/domain/model"
	"github.com/okian/lden/internal/fixture"
	"github.com/okian/lden/pkg/logger"
)

const defaultTimeout = time.Minute

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	def := fixture.DefaultConfig()
	fs := flag.NewFlagSet("lden-fixture", flag.ContinueOnError)
	var (
		output    = fs.String("output", "synthetic.xml", "Project file to write (.xml, .yaml, .yml, optionally .zst)")
		name      = fs.String("name", def.Name, "Project name")
		sources   = fs.Int("sources", def.Sources, "Number of sources")
		receivers = fs.Int("receivers", def.Receivers, "Number of receivers")
		coverage  = fs.Float64("coverage", def.Coverage, "Probability that a source/receiver pair is solved")
		level     = fs.Float64("level", def.BaseLevel, "Source power level in dB")
		seed      = fs.Uint64("seed", def.Seed, "Random seed")
		day       = fs.String("day", def.Periods[model.Day], "Day computation name")
		evening   = fs.String("evening", def.Periods[model.Evening], "Evening computation name")
		night     = fs.String("night", def.Periods[model.Night], "Night computation name")
		extra     = fs.String("extra", "", "Comma separated names of unrelated computations to add")
		verbose   = fs.Bool("verbose", false, "Enable verbose logging")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logLevel := "info"
	if *verbose {
		logLevel = "debug"
	}
	if err := logger.InitWithOptions(logger.WithLevel(logLevel)); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	cfg := fixture.Config{
		Name:      *name,
		Sources:   *sources,
		Receivers: *receivers,
		Periods:   model.PeriodNames{*day, *evening, *night},
		Coverage:  *coverage,
		BaseLevel: *level,
		Seed:      *seed,
	}
	for _, e := range strings.Split(*extra, ",") {
		if e = strings.TrimSpace(e); e != "" {
			cfg.Extra = append(cfg.Extra, e)
		}
	}

	log := logger.Named("lden-fixture")
	p, err := fixture.Generate(ctx, cfg)
	if err != nil {
		log.Error(ctx, "generation failed", logger.Error(err))
		return 2
	}
	if err := repository.NewFileStore().Save(ctx, p, *output); err != nil {
		log.Error(ctx, "save failed", logger.Error(err))
		return 1
	}
	log.Info(ctx, "project written", logger.String("file", *output))
	return 0
}
