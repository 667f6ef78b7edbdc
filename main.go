// Package main provides the entry point for the strokeplot command.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"strokeplot/internal/app"
	"strokeplot/internal/config"
	"strokeplot/internal/device"
	"strokeplot/internal/image"
	"strokeplot/internal/logging"
	"strokeplot/internal/toolpath"
	"strokeplot/internal/trace"
	"strokeplot/internal/version"
)

const appName = "strokeplot"

var errUsage = errors.New("usage: strokeplot <image_path> [<serial_port> <baud_rate>]")

type options struct {
	configPath  string
	previewPath string
	exportPath  string
	contourMode string
	firstPoint  string
	home        bool
	timeout     time.Duration
	settle      time.Duration
	verbose     bool
}

// target is the validated positional arguments.
type target struct {
	imagePath string
	port      string
	baud      int
}

func main() {
	logging.ConfigureRuntime()

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg(appName + " failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           appName + " <image_path> [<serial_port> <baud_rate>]",
		Short:         "Trace pure-color regions of an image and plot them",
		Long:          "Trace the pure red, green and blue regions of a .png or .jpg image into pen strokes.\nWith only an image, the command stream is printed; with a port and baud rate it is sent to the plotter.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tgt, err := parseArgs(args)
			if err != nil {
				return err
			}
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			if opts.verbose {
				logging.SetLevel(zerolog.DebugLevel)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cmd, tgt, cfg, opts)
		},
	}

	f := root.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "TOML job configuration")
	f.StringVar(&opts.previewPath, "preview", "", "write a preview of the strokes (.svg or .png)")
	f.StringVar(&opts.exportPath, "export", "", "write the planned job as JSON")
	f.StringVar(&opts.contourMode, "contour-mode", "", "contour hierarchy: tree or external")
	f.StringVar(&opts.firstPoint, "first-point", "", "repeat each stroke's first point after pen down: skip or revisit")
	f.BoolVar(&opts.home, "home", false, "finish with MOVE_TO 0 0 and TOOL_DOWN")
	f.DurationVar(&opts.timeout, "timeout", 0, "per-command device timeout")
	f.DurationVar(&opts.settle, "settle", -1, "delay after opening the port")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return root
}

// parseArgs validates <image_path> [<serial_port> <baud_rate>].
func parseArgs(args []string) (target, error) {
	if len(args) != 1 && len(args) != 3 {
		return target{}, errUsage
	}
	tgt := target{imagePath: args[0]}
	if err := image.Validate(tgt.imagePath); err != nil {
		return target{}, err
	}
	if len(args) == 1 {
		return tgt, nil
	}

	tgt.port = args[1]
	if err := device.PortExists(tgt.port); err != nil {
		return target{}, err
	}
	baud, err := strconv.Atoi(args[2])
	if err != nil || baud <= 0 {
		return target{}, fmt.Errorf("baud rate must be a positive integer, got %q", args[2])
	}
	tgt.baud = baud
	return tgt, nil
}

// resolve loads the config file and applies flag overrides.
func (o options) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.contourMode != "" {
		mode, err := trace.ParseContourMode(o.contourMode)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Vectorize.ContourMode = mode
	}
	if o.firstPoint != "" {
		policy, err := toolpath.ParseFirstPointPolicy(o.firstPoint)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Vectorize.FirstPoint = policy
	}
	if cmd.Flags().Changed("home") {
		cfg.Plotter.Home = o.home
	}
	if o.timeout > 0 {
		cfg.Serial.Timeout = config.Duration{Duration: o.timeout}
	}
	if o.settle >= 0 {
		cfg.Serial.Settle = config.Duration{Duration: o.settle}
	}
	return cfg, config.Validate(cfg)
}

func run(ctx context.Context, cmd *cobra.Command, tgt target, cfg config.Config, opts options) error {
	job, err := app.PlanFile(tgt.imagePath, cfg)
	if err != nil {
		return err
	}

	if opts.previewPath != "" {
		if err := job.Preview(opts.previewPath); err != nil {
			return err
		}
	}
	if opts.exportPath != "" {
		if err := job.Export(opts.exportPath); err != nil {
			return err
		}
	}

	// Dry run
	if tgt.port == "" {
		return job.Print(cmd.OutOrStdout())
	}

	session, err := device.Open(ctx, tgt.port, tgt.baud, cfg.DeviceOptions())
	if err != nil {
		return err
	}
	defer session.Close()

	sent, err := job.Send(ctx, session)
	if err != nil {
		log.Error().Int("acknowledged", sent).Int("total", len(job.Commands())).Msg("job interrupted")
		return err
	}
	return nil
}
