package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/clearpath-fin/clearpath/pkg/cli/config"
	"github.com/clearpath-fin/clearpath/pkg/service/payment"
)

func cmdWebhook() *cli.Command {
	return &cli.Command{
		Name:  "webhook",
		Usage: "Validate the payment webhook configuration",
		Commands: []*cli.Command{
			cmdWebhookProbe(),
			cmdWebhookCheckIP(),
		},
	}
}

func cmdWebhookProbe() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:  "probe",
		Usage: "Deliver a signed test event to the configured endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Path to TOML application config",
				Required:    true,
				Sources:     cli.EnvVars("CLEARPATH_CONFIG"),
				Destination: &configPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			appCfg, err := config.LoadAppConfiguration(configPath)
			if err != nil {
				return err
			}

			prober := payment.NewProber(appCfg.ToWebhookConfig())
			result, err := prober.Probe(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%s: status %d, latency %s\n",
				result.EndpointURL, result.StatusCode, result.Latency)
			if !result.OK {
				return goerr.New("webhook endpoint rejected the test event",
					goerr.V("status", result.StatusCode))
			}
			fmt.Println("endpoint accepted the signed test event")
			return nil
		},
	}
}

func cmdWebhookCheckIP() *cli.Command {
	var configPath string
	var addr string

	return &cli.Command{
		Name:  "check-ip",
		Usage: "Check a source IP against the configured allowlist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Path to TOML application config",
				Required:    true,
				Sources:     cli.EnvVars("CLEARPATH_CONFIG"),
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "ip",
				Usage:       "Source IP address to check",
				Required:    true,
				Destination: &addr,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			appCfg, err := config.LoadAppConfiguration(configPath)
			if err != nil {
				return err
			}

			prober := payment.NewProber(appCfg.ToWebhookConfig())
			allowed, err := prober.CheckSource(addr)
			if err != nil {
				return err
			}

			if allowed {
				fmt.Printf("%s is allowed\n", addr)
				return nil
			}
			fmt.Printf("%s is NOT allowed\n", addr)
			return goerr.New("source IP outside the allowlist", goerr.V("ip", addr))
		},
	}
}
