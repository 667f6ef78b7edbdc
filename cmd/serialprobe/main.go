// Command serialprobe exercises a plotter's serial handshake with a short
// fixed command sequence, or replays the commands of an exported job.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"strokeplot/internal/config"
	"strokeplot/internal/device"
	"strokeplot/internal/logging"
	"strokeplot/internal/project"
	"strokeplot/internal/toolpath"
	"strokeplot/internal/trace"
)

// probeSequence touches every command keyword except END.
func probeSequence() []toolpath.Command {
	return []toolpath.Command{
		toolpath.MoveTo(100, 200),
		toolpath.MoveTo(300, 500),
		toolpath.ChangeColor(trace.Red),
		toolpath.ChangeColor(trace.Blue),
		toolpath.ToolUp(),
		toolpath.ToolDown(),
	}
}

func main() {
	logging.ConfigureRuntime()

	var (
		configPath string
		jobPath    string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:           "serialprobe <serial_port> <baud_rate>",
		Short:         "Check a plotter's command handshake",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logging.SetLevel(zerolog.DebugLevel)
			}
			port := args[0]
			if err := device.PortExists(port); err != nil {
				return err
			}
			baud, err := strconv.Atoi(args[1])
			if err != nil || baud <= 0 {
				return fmt.Errorf("baud rate must be a positive integer, got %q", args[1])
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			cmds := probeSequence()
			if jobPath != "" {
				job, err := project.Load(jobPath)
				if err != nil {
					return err
				}
				if cmds, err = job.ParseCommands(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			session, err := device.Open(ctx, port, baud, cfg.DeviceOptions())
			if err != nil {
				return err
			}
			defer session.Close()

			out := cmd.OutOrStdout()
			sent, err := device.Stream(ctx, session, cmds, func(i int, c toolpath.Command, lines []string) {
				fmt.Fprintf(out, "%4d  %-24s %d line(s)\n", i+1, c.Line(), len(lines))
				for _, l := range lines {
					fmt.Fprintf(out, "        %s\n", l)
				}
			})
			fmt.Fprintf(out, "\n%d/%d commands acknowledged\n", sent, len(cmds))
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "TOML job configuration (serial section)")
	f.StringVar(&jobPath, "job", "", "replay the commands of an exported job instead of the probe sequence")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("probe failed")
		os.Exit(1)
	}
}
