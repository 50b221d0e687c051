package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/clearpath-fin/clearpath/pkg/service/loadtest"
)

func cmdLoadTest() *cli.Command {
	var scenario loadtest.Scenario
	var apiKey string
	var outPath string
	var maxP95Ms float64
	var maxErrorRate float64

	return &cli.Command{
		Name:  "loadtest",
		Usage: "Run a load test scenario against the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       "Scenario name used in the report",
				Value:       "default",
				Destination: &scenario.Name,
			},
			&cli.StringFlag{
				Name:        "url",
				Usage:       "Target URL",
				Required:    true,
				Sources:     cli.EnvVars("CLEARPATH_LOADTEST_URL"),
				Destination: &scenario.URL,
			},
			&cli.StringFlag{
				Name:        "method",
				Usage:       "HTTP method",
				Value:       "GET",
				Destination: &scenario.Method,
			},
			&cli.StringFlag{
				Name:        "body",
				Usage:       "Request body sent with every request",
				Destination: &scenario.Body,
			},
			&cli.IntFlag{
				Name:        "requests",
				Aliases:     []string{"n"},
				Usage:       "Total number of requests",
				Value:       1000,
				Destination: &scenario.Requests,
			},
			&cli.IntFlag{
				Name:        "concurrency",
				Aliases:     []string{"c"},
				Usage:       "Number of in-flight requests",
				Value:       10,
				Destination: &scenario.Concurrency,
			},
			&cli.StringFlag{
				Name:        "api-key",
				Usage:       "API key sent with each request",
				Sources:     cli.EnvVars("CLEARPATH_API_KEY"),
				Destination: &apiKey,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Write the JSON report to this path",
				Destination: &outPath,
			},
			&cli.FloatFlag{
				Name:        "max-p95-ms",
				Usage:       "Fail when p95 latency exceeds this budget (0 disables)",
				Destination: &maxP95Ms,
			},
			&cli.FloatFlag{
				Name:        "max-error-rate",
				Usage:       "Fail when the error rate exceeds this budget (0 disables)",
				Destination: &maxErrorRate,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if apiKey != "" {
				scenario.Headers = map[string]string{"X-API-Key": apiKey}
			}
			if scenario.Body != "" && scenario.Headers == nil {
				scenario.Headers = map[string]string{}
			}
			if scenario.Body != "" {
				scenario.Headers["Content-Type"] = "application/json"
			}

			runner := loadtest.NewRunner()
			result, err := runner.Run(ctx, &scenario)
			if err != nil {
				return goerr.Wrap(err, "load test failed")
			}

			result.Print(os.Stdout)

			if outPath != "" {
				if err := result.Save(outPath); err != nil {
					return err
				}
			}

			return result.Check(loadtest.Thresholds{
				MaxP95Ms:     maxP95Ms,
				MaxErrorRate: maxErrorRate,
			})
		},
	}
}
