package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/carlosrabelo/unifi2icx/internal/converter"
	"github.com/carlosrabelo/unifi2icx/internal/watch"
	"github.com/carlosrabelo/unifi2icx/internal/web"
)

type convertOptions struct {
	output    string
	download  bool
	clipboard bool
	watch     bool
}

// newConvertCmd creates the convert subcommand
func newConvertCmd(root *rootOptions) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a UniFi JSON export into ICX configuration",
		Long: `Read a UniFi switch export (a file, or stdin when the file is omitted or
"-") and print the Ruckus ICX configuration. With --watch the input file is
converted again every time it changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.download {
				if opts.output != "" {
					return fmt.Errorf("--output and --download cannot be used together")
				}
				opts.output = web.DownloadName
			}
			path := inputPath(args)
			if opts.watch {
				if path == "-" {
					return fmt.Errorf("--watch requires an input file")
				}
				if opts.output == "" {
					return fmt.Errorf("--watch requires --output or --download")
				}
			}

			cfg, err := root.loadConfig("", false)
			if err != nil {
				return err
			}
			conv := root.newConverter(cfg)

			run := func() error {
				return convertOnce(cmd, conv, path, opts)
			}
			if !opts.watch {
				return run()
			}

			if err := run(); err != nil {
				root.log.Warn().Err(err).Msg("initial conversion failed, waiting for changes")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			root.log.Info().Str("file", path).Str("output", opts.output).Msg("watching for changes, press Ctrl+C to stop")
			return watch.File(ctx, path, watch.DefaultDebounce, run, root.log)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the configuration to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.download, "download", false, "Write the configuration to "+web.DownloadName+" in the current directory")
	cmd.Flags().BoolVarP(&opts.clipboard, "clipboard", "c", false, "Also copy the configuration to the clipboard")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Convert again whenever the input file changes")

	return cmd
}

// convertOnce runs one conversion. On error the previous output is left as is.
func convertOnce(cmd *cobra.Command, conv *converter.Converter, path string, opts *convertOptions) error {
	data, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	out, err := conv.Convert(data)
	if err != nil {
		return err
	}

	if opts.output == "" {
		if _, err := fmt.Fprint(cmd.OutOrStdout(), out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		if err := os.WriteFile(opts.output, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write output %s: %w", opts.output, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Configuration written to %s\n", opts.output)
	}

	if opts.clipboard {
		if err := clipboard.WriteAll(out); err != nil {
			return fmt.Errorf("failed to copy configuration to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Configuration copied to clipboard!")
	}
	return nil
}
