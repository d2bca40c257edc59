// Package main provides the CLI entrypoint for fitline.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/fitline/internal/calday"
	"github.com/verte-zerg/fitline/internal/config"
	"github.com/verte-zerg/fitline/internal/daily"
	"github.com/verte-zerg/fitline/internal/ingest"
	"github.com/verte-zerg/fitline/internal/metrics"
	"github.com/verte-zerg/fitline/internal/model"
	"github.com/verte-zerg/fitline/internal/stats"
	"github.com/verte-zerg/fitline/internal/statsui"
	"github.com/verte-zerg/fitline/internal/store"
)

const defaultCurveWindow = 7

var (
	configPath  string
	dbPath      string
	verbose     bool
	startDay    string
	timezone    string
	eventMerge  string
	curveWindow int

	reportJSON        bool
	reportMetricsFile string
	reportDir         string
	reportDays        bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg(rootCmd.Name())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "fitline",
		Short:             "Daily fitness timeline from sparse exports",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogging,
		RunE:              runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultConfigPath(), "config file")
	flags.StringVar(&dbPath, "db", config.DefaultDBPath(), "SQLite database with imported records")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flags.StringVar(&startDay, "start", stats.DefaultOptions().Timeline.Start.String(), "first timeline day (YYYY-MM-DD)")
	flags.StringVar(&timezone, "timezone", "Local", "IANA zone used to bucket records into days")
	flags.StringVar(&eventMerge, "event-merge", string(daily.EventFirst), "same-day calendar events: first or all")
	flags.IntVar(&curveWindow, "curve-window", defaultCurveWindow, "moving average window in days")

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newImportsCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = false
	log.Logger = log.Output(
		zerolog.ConsoleWriter{
			Out:        cmd.ErrOrStderr(),
			NoColor:    false,
			TimeFormat: time.RFC3339,
		},
	)
	return nil
}

// resolveOptions layers flags over the config file over built-in defaults.
func resolveOptions(cmd *cobra.Command) (stats.Options, int, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return stats.Options{}, 0, fmt.Errorf("failed to load config: %w", err)
	}
	opts, err := fileCfg.Options()
	if err != nil {
		return stats.Options{}, 0, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	window := curveWindow
	applyIntConfig(cmd, "curve-window", &window, fileCfg.Report.CurveWindow)
	if window < 1 {
		return stats.Options{}, 0, fmt.Errorf("--curve-window must be >= 1")
	}

	if cmd.Flags().Changed("start") {
		day, err := calday.Parse(startDay)
		if err != nil {
			return stats.Options{}, 0, fmt.Errorf("invalid --start value: %w", err)
		}
		opts.Timeline.Start = day
	}
	if cmd.Flags().Changed("timezone") {
		loc, err := config.LoadLocation(timezone)
		if err != nil {
			return stats.Options{}, 0, fmt.Errorf("invalid --timezone value: %w", err)
		}
		opts.Timeline.Location = loc
	}
	if cmd.Flags().Changed("event-merge") {
		merge, err := daily.ParseEventMerge(eventMerge)
		if err != nil {
			return stats.Options{}, 0, fmt.Errorf("invalid --event-merge value: %w", err)
		}
		opts.Timeline.EventMerge = merge
	}
	return opts, window, nil
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close db")
		}
	}, nil
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	opts, window, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	m := statsui.NewModel(st, statsui.Settings{Options: opts, CurveWindow: window})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir|file>...",
		Short: "Import exports into the database",
		Long: "Import a data directory (fitness_daily.csv, sport_record.csv, calendar.csv, *.ics)\n" +
			"or single export files. Each argument is stored as one batch.",
		Args: cobra.MinimumNArgs(1),
		RunE: runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	opts, _, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := cmd.Context()
	for _, path := range args {
		in, err := ingest.LoadPath(ctx, path, opts.Timeline.Location)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		batch, err := st.Import(ctx, abs, in)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		log.Info().
			Str("batch", batch.ID).
			Str("source", batch.Source).
			Int("metrics", batch.Metrics).
			Int("activities", batch.Activities).
			Int("events", batch.Events).
			Msg("imported")
	}
	return nil
}

func newImportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imports",
		Short: "List imported batches",
		Args:  cobra.NoArgs,
		RunE:  runImportsCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <batch-id>...",
		Short: "Delete imported batches and their records",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImportsRmCmd,
	})
	return cmd
}

func runImportsCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	batches, err := st.ListImports(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list imports: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(batches) == 0 {
		_, err := fmt.Fprintln(out, "No imports found.")
		return err
	}
	for _, b := range batches {
		if _, err := fmt.Fprintf(out, "%s  %s  metrics=%d activities=%d events=%d  %s\n",
			b.ID, b.ImportedAt.Local().Format("2006-01-02 15:04"), b.Metrics, b.Activities, b.Events, b.Source); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runImportsRmCmd(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	for _, id := range args {
		if err := st.DeleteImport(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", id, err)
		}
		log.Info().Str("batch", id).Msg("deleted")
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the timeline summary, breakdown and curves",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().BoolVar(&reportJSON, "json", false, "print timeline, summary and breakdown as JSON")
	cmd.Flags().StringVar(&reportMetricsFile, "metrics-file", "", "also write Prometheus textfile metrics to this path")
	cmd.Flags().StringVar(&reportDir, "dir", "", "read exports from this directory instead of the database")
	cmd.Flags().BoolVar(&reportDays, "days", false, "also print one row per timeline day")
	return cmd
}

// dirSource reads records straight from an export directory.
type dirSource struct {
	dir string
	loc *time.Location
}

func (d dirSource) LoadInputs(ctx context.Context) (model.Inputs, error) {
	return ingest.LoadDir(ctx, d.dir, d.loc)
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	opts, window, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var src stats.Source
	if reportDir != "" {
		src = dirSource{dir: reportDir, loc: opts.Timeline.Location}
	} else {
		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()
		src = st
	}

	report, err := stats.BuildReport(ctx, src, opts)
	if err != nil {
		return err
	}
	log.Debug().Int("days", len(report.Timeline)).Int("activities", len(report.Breakdown)).Msg("report")

	if reportMetricsFile != "" {
		if err := metrics.WriteTextfile(reportMetricsFile, report); err != nil {
			return err
		}
		log.Info().Str("file", reportMetricsFile).Msg("metrics written")
	}

	out := cmd.OutOrStdout()
	if reportJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
		return nil
	}
	if err := stats.RenderSummary(out, report.Timeline, report.Summary); err != nil {
		return err
	}
	if len(report.Timeline) == 0 {
		return nil
	}
	if err := stats.RenderBreakdownTable(out, report.Breakdown); err != nil {
		return err
	}
	if err := stats.RenderPauseStrip(out, report.Timeline, 0); err != nil {
		return err
	}
	if err := stats.RenderStepStrip(out, report.Timeline, 0); err != nil {
		return err
	}
	if err := stats.RenderCurves(out, report.Timeline, window); err != nil {
		return err
	}
	if reportDays {
		return stats.RenderTimelineTable(out, report.Timeline)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	if err := writeDefaultConfig(configPath); err != nil {
		return err
	}
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], configPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the commented template unless path exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	d := stats.DefaultOptions()
	return fmt.Sprintf(`# fitline configuration
# Uncomment a value to enable it. CLI flags override config values.

[timeline]
# start = %q          # First timeline day
# timezone = "Local"           # IANA zone used to bucket records into days
# event-merge = %q         # Same-day calendar events: first or all

[summary]
# step-length-km = %g     # Distance per step

[breakdown]
# exclude = %q     # Activity left out of the calorie breakdown

[report]
# curve-window = %d             # Moving average window in days

# Per-activity colour and label overrides:
# [activities.padel]
# color = "#2E86AB"
# label = "Padel"
`,
		d.Timeline.Start.String(),
		string(d.Timeline.EventMerge),
		d.StepLengthKm,
		d.Breakdown.Exclude,
		defaultCurveWindow,
	)
}
