// Package cli provides the command-line interface for unifi2icx.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carlosrabelo/unifi2icx/internal/config"
	"github.com/carlosrabelo/unifi2icx/internal/converter"
	"github.com/carlosrabelo/unifi2icx/internal/logging"
	"github.com/carlosrabelo/unifi2icx/internal/platform/icx"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath     string
	configExplicit bool
	verbosity      int
	log            zerolog.Logger
}

// NewRootCmd creates the root command for unifi2icx
func NewRootCmd(version, buildTime string) *cobra.Command {
	opts := &rootOptions{log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "unifi2icx",
		Short: "Convert UniFi switch exports into Ruckus ICX configuration",
		Long: `unifi2icx translates the expected_system_cfg property list of a UniFi
switch export into a Ruckus ICX (FastIron) configuration script, and can push
the result to a switch or serve the converter over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.verbosity < 0 || opts.verbosity > 3 {
				return fmt.Errorf("invalid verbosity level %d: must be between 0 and 3", opts.verbosity)
			}
			if f := cmd.Flag("config"); f != nil {
				opts.configExplicit = f.Changed
			}
			if opts.verbosity == 0 {
				opts.log = logging.NewFromEnv()
			} else {
				logCfg := logging.ForVerbosity(opts.verbosity)
				logCfg.Output = cmd.ErrOrStderr()
				opts.log = logging.New(logCfg)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "y", config.FileName, "YAML configuration file")
	rootCmd.PersistentFlags().IntVarP(&opts.verbosity, "verbose", "v", 0, "Verbosity level: 0=none, 1=debug, 2=raw switch output, 3=debug and raw output")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "unifi2icx %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "built: %s\n", buildTime)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newConvertCmd(opts))
	rootCmd.AddCommand(newPushCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))

	return rootCmd
}

// loadConfig resolves and loads the YAML configuration. Without a file the
// defaults apply, unless a switch target is needed.
func (o *rootOptions) loadConfig(target string, write bool) (*config.Config, error) {
	path, err := config.Resolve(o.configPath, o.configExplicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		if target != "" {
			return nil, fmt.Errorf("no %s found in %s", config.FileName, strings.Join(config.SearchPaths(), ", "))
		}
		o.log.Debug().Msg("no configuration file found, using defaults")
		return config.Default(), nil
	}
	o.log.Debug().Str("path", path).Msg("configuration file found")
	return config.Load(path, target, write, o.verbosity, o.log)
}

func (o *rootOptions) newConverter(cfg *config.Config) *converter.Converter {
	return converter.New(icx.NewRenderer(cfg.Profile), o.log)
}

// readInput reads a file, or r when path is empty or "-"
func readInput(path string, r io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read input from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", path, err)
	}
	return data, nil
}

func inputPath(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
