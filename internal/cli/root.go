package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/repository"
	serviceBinder "inkwell/internal/service/binder"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// App carries the state shared by every subcommand.
type App struct {
	Store   string
	Format  string
	Pretty  bool
	Verbose bool

	services *serviceBinder.Services
	backend  *repository.Backend
}

// NewRootCmd builds the inkwell command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "inkwell",
		Short:        "Manage inkwell projects from the command line",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # List projects in the configured store
  inkwell projects list

  # Export a project as YAML
  inkwell export <project-id> --as yaml --out draft.yaml

  # Who is in two places at once?
  inkwell conflicts <project-id>
`),
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close(cmd.Context())
	}

	cmd.PersistentFlags().StringVar(&app.Store, "store", "", "Store backend (memory|redis|postgres|sqlite); defaults to STORE_BACKEND")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("INKWELL_FORMAT", "json"), "Output format (json|yaml)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVar(&app.Verbose, "verbose", false, "Log to stderr")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newMatrixCmd(app))
	cmd.AddCommand(newConflictsCmd(app))

	return cmd
}

// open wires the services on first use.
func (a *App) open(ctx context.Context) (*serviceBinder.Services, error) {
	if a.services != nil {
		return a.services, nil
	}

	cfg := config.Load()
	if a.Store != "" {
		cfg.StoreBackend = a.Store
	}

	level := slog.LevelWarn
	if a.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.backend = backend
	a.services = serviceBinder.SetupServices(backend.KV, backend.Tx, cfg.SaveDebounce, serviceBinder.AssistConfig{}, logger)
	return a.services, nil
}

// close flushes pending writes and releases the backend opened by open.
func (a *App) close(ctx context.Context) error {
	if a.backend == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := a.services.Shutdown(ctx)
	a.backend.Close()
	a.backend = nil
	a.services = nil
	return err
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		if pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown output format %q (want json or yaml)", format)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
