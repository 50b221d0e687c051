package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/clearpath-fin/clearpath/pkg/cli/config"
	httpctrl "github.com/clearpath-fin/clearpath/pkg/controller/http"
	"github.com/clearpath-fin/clearpath/pkg/service/worker"
	"github.com/clearpath-fin/clearpath/pkg/usecase"
	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var configPath string
	var apiKey string
	var monitorEndpoints string
	var monitorInterval time.Duration
	var reminderInterval time.Duration
	var loggerNotifyCfg config.Notify
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CLEARPATH_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML application config (tiers, prompts, webhook)",
			Required:    true,
			Sources:     cli.EnvVars("CLEARPATH_CONFIG"),
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "api-key",
			Usage:       "API key required on /api routes (unauthenticated when empty)",
			Sources:     cli.EnvVars("CLEARPATH_API_KEY"),
			Destination: &apiKey,
		},
		&cli.StringFlag{
			Name:        "monitor-endpoints",
			Usage:       "Comma-separated endpoint URLs for the health monitor",
			Sources:     cli.EnvVars("CLEARPATH_MONITOR_ENDPOINTS"),
			Destination: &monitorEndpoints,
		},
		&cli.DurationFlag{
			Name:        "monitor-interval",
			Usage:       "Health monitor probe interval",
			Value:       time.Minute,
			Sources:     cli.EnvVars("CLEARPATH_MONITOR_INTERVAL"),
			Destination: &monitorInterval,
		},
		&cli.DurationFlag{
			Name:        "reminder-interval",
			Usage:       "Trial reminder delivery interval",
			Value:       time.Hour,
			Sources:     cli.EnvVars("CLEARPATH_REMINDER_INTERVAL"),
			Destination: &reminderInterval,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, loggerNotifyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			appCfg, err := config.LoadAppConfiguration(configPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}
			tierCfg := appCfg.ToDomainTierConfig()
			webhookCfg := appCfg.ToWebhookConfig()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			notifier, err := loggerNotifyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifier")
			}

			uc := usecase.New(repo, tierCfg,
				usecase.WithWebhookConfig(webhookCfg),
			)

			// Health monitor worker
			var monitor *worker.HealthMonitor
			if monitorEndpoints != "" {
				endpoints := strings.Split(monitorEndpoints, ",")
				for i := range endpoints {
					endpoints[i] = strings.TrimSpace(endpoints[i])
				}
				monitor = worker.NewHealthMonitor(endpoints, monitorInterval, notifier)
				if err := monitor.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start health monitor")
				}
			}

			// Trial reminder worker
			reminders := worker.NewReminderWorker(uc.Onboarding, reminderInterval)
			if err := reminders.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start reminder worker")
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithPaymentWebhook(webhookCfg),
			}
			if apiKey != "" {
				httpOpts = append(httpOpts, httpctrl.WithAPIKey(apiKey))
			}
			if monitor != nil {
				httpOpts = append(httpOpts, httpctrl.WithHealthMonitor(monitor))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, tierCfg, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				reminders.Stop()
				if monitor != nil {
					monitor.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
