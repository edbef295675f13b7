// Package cli implements the zoomsim command-line interface.
//
// zoomsim drives a zoom controller without a touch screen:
//   - replay: feed a recorded gesture script and print or render every frame
//   - sim: an interactive terminal simulator
//   - geometry: print the layout and translate bounds for an image size
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried on the command's context.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jakecoffman/zoom"
)

func Execute(ctx context.Context) error {
	return RootCommand().ExecuteContext(ctx)
}

func RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "zoomsim",
		Short:        "zoomsim replays and simulates pinch, pan and double-tap zoom",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(replayCommand())
	root.AddCommand(simCommand())
	root.AddCommand(geometryCommand())
	return root
}

// parseSize reads "WxH", e.g. "400x800".
func parseSize(s string) (zoom.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return zoom.Size{}, fmt.Errorf("size %q: want WxH", s)
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return zoom.Size{}, fmt.Errorf("size %q: %w", s, err)
	}
	height, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return zoom.Size{}, fmt.Errorf("size %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return zoom.Size{}, fmt.Errorf("size %q: must be positive", s)
	}
	return zoom.Size{Width: width, Height: height}, nil
}

// loadConfig reads path, or returns the defaults when path is empty. The
// controller logs through logger.
func loadConfig(path string, logger *log.Logger) (zoom.Config, error) {
	config := zoom.DefaultConfig()
	if path != "" {
		var err error
		if config, err = zoom.LoadConfig(path); err != nil {
			return zoom.Config{}, err
		}
	}
	config.Logger = logger.WithPrefix("zoom")
	return config.WithDefaults(), nil
}
