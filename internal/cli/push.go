package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carlosrabelo/unifi2icx/internal/deploy"
	"github.com/carlosrabelo/unifi2icx/internal/platform"
	"github.com/carlosrabelo/unifi2icx/internal/snmp"
	"github.com/carlosrabelo/unifi2icx/internal/transport"
)

type pushOptions struct {
	target    string
	write     bool
	skipProbe bool
}

// newPushCmd creates the push subcommand
func newPushCmd(root *rootOptions) *cobra.Command {
	opts := &pushOptions{}

	cmd := &cobra.Command{
		Use:   "push [file]",
		Short: "Convert and apply the configuration to a switch",
		Long: `Convert a UniFi export and apply the result to a switch listed in the
YAML configuration. Without --write nothing is sent: the commands are printed
in sandbox mode.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.target == "" {
				return fmt.Errorf("the -t parameter is required, specify the switch target with -t <target>")
			}

			cfg, err := root.loadConfig(opts.target, opts.write)
			if err != nil {
				return err
			}
			sw, ok := cfg.Switch(opts.target)
			if !ok {
				return fmt.Errorf("switch %s not found in the YAML configuration", opts.target)
			}
			driver, err := platform.Get(sw.Platform)
			if err != nil {
				return err
			}

			data, err := readInput(inputPath(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			rendered, err := root.newConverter(cfg).Convert(data)
			if err != nil {
				return err
			}

			if !opts.skipProbe {
				if err := probe(cmd.Context(), root, sw.Target, sw.SnmpCommunity, cfg.SnmpPort, driver); err != nil {
					return fmt.Errorf("%w (use --skip-probe to bypass)", err)
				}
			}

			client := transport.Get(sw, root.log)
			defer transport.CloseAll()
			transport.Prepare(client, driver.AuthenticationSequence(sw.Username, sw.Password, sw.EnablePassword), driver.PagerCommand())

			svc := deploy.NewService(client, sw, driver, root.log)
			svc.SetOutput(cmd.OutOrStdout())
			return svc.Apply(rendered)
		},
	}

	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "Switch target as listed in the YAML configuration")
	cmd.Flags().BoolVar(&opts.write, "write", false, "Apply and save the configuration (default is sandbox mode)")
	cmd.Flags().BoolVar(&opts.skipProbe, "skip-probe", false, "Do not verify the platform over SNMP")

	return cmd
}

func probe(ctx context.Context, root *rootOptions, target, community string, port int, driver platform.Driver) error {
	ctx, cancel := context.WithTimeout(ctx, 2*snmp.DefaultTimeout)
	defer cancel()

	info, err := snmp.Probe(ctx, target, community, port, snmp.DefaultTimeout)
	if err != nil {
		return err
	}
	root.log.Debug().Str("sysName", info.Name).Str("sysDescr", info.Description).Msg("probed switch")
	return deploy.CheckPlatform(info, driver)
}
