package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/thisoldcpu/opn-paralax/internal/cliconfig"
	"github.com/thisoldcpu/opn-paralax/pkg/log"
	"github.com/thisoldcpu/opn-paralax/pkg/paralax"
)

const helpBanner = `
 ██████╗  █████╗ ██████╗  █████╗ ██╗      █████╗ ██╗  ██╗
 ██╔══██╗██╔══██╗██╔══██╗██╔══██╗██║     ██╔══██╗╚██╗██╔╝
 ██████╔╝███████║██████╔╝███████║██║     ███████║ ╚███╔╝
 ██╔═══╝ ██╔══██║██╔══██╗██╔══██║██║     ██╔══██║ ██╔██╗
 ██║     ██║  ██║██║  ██║██║  ██║███████╗██║  ██║██╔╝ ██╗
 ╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝
`

const helpDescription = `
Capture parallel-bus traffic and stream it as timestamped CSV records.

Highlights:
  - Deadband coalescing folds switch bounce into single edges.
  - Lock-free ring buffer between capture and drain; overruns are counted,
    never silently overwritten.
  - Records go to stdout, a file, or a serial device; diagnostics stay on
    stderr so the record stream remains clean.
  - Configure via file ($HOME/.paralax/config.toml), PARALAX_* env, or flags.
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  paralax --input captures/print-job.events
  paralax --input bus.events --follow --output session.csv
  paralax --input bus.events --lines strobe,busy,ack --deadband 10
  paralax --input bus.events --serial-device /dev/ttyACM0 --baud 921600
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	zl := log.NewZerologAdapter()

	root := &cobra.Command{
		Use:     "paralax",
		Short:   "Capture parallel-bus traffic and stream it as timestamped CSV records",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Flags set explicitly on the command line win over file and env.
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			var logger log.Logger = zl
			if cfg.Quiet {
				logger = log.NewNoop()
			}

			libCfg := paralax.Config{
				Input:             cfg.Input,
				Follow:            cfg.Follow,
				Speed:             cfg.Speed,
				RingSize:          cfg.RingSize,
				DeadbandUs:        cfg.DeadbandUs,
				StatusLines:       cfg.Lines,
				DataOnly:          cfg.DataOnly,
				Output:            cfg.Output,
				SerialDevice:      cfg.SerialDevice,
				Baud:              cfg.Baud,
				SummaryDir:        cfg.SummaryDir,
				PollInterval:      cfg.PollInterval,
				StatsInterval:     cfg.StatsInterval,
				HeartbeatInterval: cfg.HeartbeatInterval,
			}

			c, err := paralax.New(libCfg, paralax.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("create capture: %w", err)
			}
			defer c.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			if err := c.Start(ctx); err != nil {
				return fmt.Errorf("start capture: %w", err)
			}

			doneCh := make(chan error, 1)
			go func() { doneCh <- c.Wait() }()

			select {
			case <-sigCh:
				logger.Info("received signal, stopping")
				if err := c.Stop(); err != nil {
					return fmt.Errorf("stop capture: %w", err)
				}
				<-doneCh
			case err := <-doneCh:
				// Finite replay drained to completion, or the pipeline failed.
				if err != nil {
					return err
				}
			}

			logger.Info("capture finished",
				log.Uint64("captured", c.Captured()),
				log.Uint64("dropped", c.Dropped()))
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.paralax/config.toml)")
	root.Flags().StringVarP(&cfg.Input, "input", "i", cfg.Input, "event file to replay through the pipeline")
	root.Flags().BoolVarP(&cfg.Follow, "follow", "f", cfg.Follow, "tail the input file as it grows")
	root.Flags().Float64Var(&cfg.Speed, "speed", cfg.Speed, "replay pacing multiplier (0 replays flat out)")

	root.Flags().IntVar(&cfg.RingSize, "ring-size", cfg.RingSize, "capture buffer capacity in frames (power of two)")
	root.Flags().Uint32Var(&cfg.DeadbandUs, "deadband", cfg.DeadbandUs, "coalescing window in microseconds")
	root.Flags().StringSliceVar(&cfg.Lines, "lines", cfg.Lines, "status lines to render, in canonical order (default: all)")
	root.Flags().BoolVar(&cfg.DataOnly, "data-only", cfg.DataOnly, "emit timestamp and data byte only, no status columns")

	root.Flags().StringVarP(&cfg.Output, "output", "o", cfg.Output, `record destination: a path, or "-" for stdout`)
	root.Flags().StringVar(&cfg.SerialDevice, "serial-device", cfg.SerialDevice, "stream records to this tty instead of --output")
	root.Flags().IntVar(&cfg.Baud, "baud", cfg.Baud, "serial line rate (default 921600)")
	root.Flags().StringVar(&cfg.SummaryDir, "summary-dir", cfg.SummaryDir, "write summary.json here after each session")

	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "drain poll interval when the buffer is empty")
	root.Flags().DurationVar(&cfg.StatsInterval, "stats-interval", cfg.StatsInterval, "interval between stats comment records")
	root.Flags().DurationVar(&cfg.HeartbeatInterval, "heartbeat-interval", cfg.HeartbeatInterval, "interval between liveness log lines")
	root.Flags().BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "suppress diagnostics on stderr")

	if err := root.Execute(); err != nil {
		zl.Error("paralax", log.Err(err))
		os.Exit(1)
	}
}
