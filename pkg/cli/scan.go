package cli

import (
	"context"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/clearpath-fin/clearpath/pkg/service/pentest"
)

func cmdScan() *cli.Command {
	var target string
	var protectedPaths string
	var outPath string
	var failOn string

	return &cli.Command{
		Name:  "scan",
		Usage: "Run the security probe battery against a deployment",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "target",
				Usage:       "Base URL of the deployment under test",
				Required:    true,
				Sources:     cli.EnvVars("CLEARPATH_SCAN_TARGET"),
				Destination: &target,
			},
			&cli.StringFlag{
				Name:        "protected-paths",
				Usage:       "Comma-separated paths expected to require authentication",
				Destination: &protectedPaths,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Write the JSON report to this path",
				Destination: &outPath,
			},
			&cli.StringFlag{
				Name:        "fail-on",
				Usage:       "Exit non-zero when a finding at or above this severity exists (INFO/LOW/MEDIUM/HIGH/CRITICAL, empty disables)",
				Value:       "HIGH",
				Destination: &failOn,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var opts []pentest.ScannerOption
			if protectedPaths != "" {
				paths := strings.Split(protectedPaths, ",")
				for i := range paths {
					paths[i] = strings.TrimSpace(paths[i])
				}
				opts = append(opts, pentest.WithProtectedPaths(paths))
			}

			scanner := pentest.NewScanner(target, opts...)
			report, err := scanner.Scan(ctx)
			if err != nil {
				return goerr.Wrap(err, "scan failed")
			}

			report.Print(os.Stdout)

			if outPath != "" {
				if err := report.Save(outPath); err != nil {
					return err
				}
			}

			if failOn != "" && report.HasBlocking(pentest.Severity(failOn)) {
				return goerr.New("scan found blocking issues", goerr.V("fail_on", failOn))
			}
			return nil
		},
	}
}
