package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"landedcost/internal/app"
	"landedcost/internal/config"
	apierrors "landedcost/internal/errors"
	"landedcost/internal/infrastructure"
	"landedcost/pkg/contracts"
	api "landedcost/pkg/contracts/api/v1"
)

// errReported marks a failure whose envelope was already printed
var errReported = errors.New("command failed")

// session is what every subcommand needs, built once per invocation
type session struct {
	services *app.ServiceContainer
	errors   *apierrors.ErrorHandler
	logger   *slog.Logger
	quotes   []string
	out      io.Writer
	now      func() time.Time
	shutdown func(context.Context) error
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var cfgFile, logLevel string

	root := &cobra.Command{
		Use:   "landedcost",
		Short: "Import quote spreadsheets and allocate landed costs",
		Long: `landedcost reads supplier quotes (.xlsx, .xls, .csv), normalizes the
product rows and distributes freight, insurance, fixed costs, variable
costs and taxes over the products in proportion to their value.

Results are printed as the same JSON envelopes the HTTP API returns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $LANDEDCOST_CONFIG or configs/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	build := func(cmd *cobra.Command) (*session, error) {
		load := config.Load
		if cfgFile != "" {
			load = func() (*config.Config, error) { return config.LoadFrom(cfgFile) }
		}
		cfg, err := load()
		if err != nil {
			return nil, err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		return newSession(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	root.AddCommand(ingestCmd(build))
	root.AddCommand(allocateCmd(build))
	root.AddCommand(versionCmd())
	return root
}

// newSession wires the services with logs and spans going to stderr so
// stdout carries only the JSON result.
func newSession(cfg *config.Config, stdout, stderr io.Writer) (*session, error) {
	cfg.Logging.Output = "console"
	logger, closer, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return nil, err
	}

	otelCfg := infrastructure.OTelConfigFrom(cfg.Telemetry)
	otelCfg.EnableMetrics = false
	otelCfg.TraceWriter = stderr
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	svc, err := app.NewServices(cfg, logger, providers)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &session{
		services: svc,
		errors:   apierrors.NewErrorHandler(logger, false),
		logger:   logger,
		quotes:   cfg.Ingestion.AllowedExtensions,
		out:      stdout,
		now:      time.Now,
		shutdown: func(ctx context.Context) error {
			return errors.Join(providers.Shutdown(ctx), closer.Close())
		},
	}, nil
}

// succeed prints a success envelope
func (s *session) succeed(message string, data any) error {
	return s.print(api.NewSuccess(message, data, s.now().UTC()))
}

// fail prints the failure envelope for err and returns errReported
func (s *session) fail(err error) error {
	if perr := s.print(s.errors.ToAPIError(err).Envelope(s.now().UTC())); perr != nil {
		return perr
	}
	return errReported
}

func (s *session) print(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}
