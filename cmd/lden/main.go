// Command lden adds a day-evening-night (Lden) computation to an acoustic
// project from its Day, Evening and Night computations.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	service "github.com/okian/lden/internal/app"
	"github.com/okian/lden/internal/config"
	"github.com/okian/lden/pkg/logger"
)

// Exit codes.
const (
	exitOK             = 0
	exitFailure        = 1
	exitConfiguration  = 2
	exitReconciliation = 3
	exitNumericDomain  = 4
)

// CLI holds the command line. Flags left unset fall back to the config
// file, LDEN_* variables and the defaults, in that order.
type CLI struct {
	Project string `arg:"" name:"project" help:"Project file holding the period computations (.xml, .yaml, .yml, optionally .zst)." type:"path"`

	Config                  string  `name:"config" help:"YAML configuration file. Overrides ${env_file}." type:"path"`
	Day                     string  `name:"day" help:"Computation taken for the day period (default Day)."`
	Evening                 string  `name:"evening" help:"Computation taken for the evening period (default Evening)."`
	Night                   string  `name:"night" help:"Computation taken for the night period (default Night)."`
	OperatingConditionsFile string  `name:"operating-conditions-file" short:"c" help:"Duty table; created with 100% rows when absent." type:"path"`
	Output                  string  `name:"output" short:"o" help:"Project file to write." type:"path"`
	ResultName              string  `name:"result-name" help:"Name of the appended computation."`
	Export                  string  `name:"export" help:"Write receiver totals as a third-octave CSV table." type:"path"`
	MetricsFile             string  `name:"metrics-file" help:"Write run metrics in Prometheus text format." type:"path"`
	DutyFloor               float64 `name:"duty-floor" help:"Percentage substituted for duty values <= 0."`
	LogLevel                string  `name:"log-level" help:"debug, info, warn or error."`
	LogFormat               string  `name:"log-format" help:"text or json."`
}

func (c *CLI) overrides() map[string]interface{} {
	o := map[string]interface{}{
		"day":                       c.Day,
		"evening":                   c.Evening,
		"night":                     c.Night,
		"operating_conditions_file": c.OperatingConditionsFile,
		"output_file":               c.Output,
		"result_name":               c.ResultName,
		"export_file":               c.Export,
		"metrics_file":              c.MetricsFile,
		"log_level":                 c.LogLevel,
		"log_format":                c.LogFormat,
	}
	if c.DutyFloor != 0 {
		o["duty_floor"] = c.DutyFloor
	}
	return o
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cli CLI
	exited := -1
	parser, err := kong.New(&cli,
		kong.Name("lden"),
		kong.Description("Combine Day, Evening and Night computations into an Lden computation."),
		kong.Writers(stdout, stderr),
		kong.Vars{"env_file": config.EnvFile},
		kong.Exit(func(code int) { exited = code }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "lden: %v\n", err)
		return exitFailure
	}
	_, err = parser.Parse(args)
	if exited >= 0 {
		return exited
	}
	if err != nil {
		fmt.Fprintf(stderr, "lden: %v\n", err)
		return exitConfiguration
	}

	cfg, err := config.Load(ctx, config.WithFile(cli.Config), config.WithOverrides(cli.overrides()))
	if err != nil {
		fmt.Fprintf(stderr, "lden: %v\n", err)
		return exitConfiguration
	}
	if err := logger.InitWithOptions(
		logger.WithWriter(stderr),
		logger.WithFormat(cfg.LogFormat),
		logger.WithLevel(cfg.LogLevel),
	); err != nil {
		fmt.Fprintf(stderr, "lden: failed to initialize logging: %v\n", err)
		return exitConfiguration
	}
	defer func() { _ = logger.Sync() }()

	svc := service.New(append(service.FromConfig(cfg), service.WithLogger(logger.Named("lden")))...)
	report, err := svc.Run(ctx, cli.Project)
	if err != nil {
		fmt.Fprintf(stderr, "lden: %v\n", err)
		return exitCode(err)
	}

	fmt.Fprintf(stdout, "%s: computation %q written to %s (%d sources, %d receivers)\n",
		report.Project, report.Result.Name, report.OutputFile, len(report.Sources), len(report.Receivers))
	if report.DutyCreated {
		fmt.Fprintf(stdout, "operating conditions written to %s with 100%% duty; edit it and run again to weight sources\n", report.DutyFile)
	}
	return exitOK
}

func exitCode(err error) int {
	switch service.ErrorKind(err) {
	case service.KindConfiguration:
		return exitConfiguration
	case service.KindReconciliation:
		return exitReconciliation
	case service.KindNumericDomain:
		return exitNumericDomain
	default:
		return exitFailure
	}
}
