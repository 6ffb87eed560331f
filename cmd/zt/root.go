package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tgienger/zt/internal/config"
	"github.com/tgienger/zt/internal/db"
	"github.com/tgienger/zt/internal/logging"
	"github.com/tgienger/zt/internal/notes"
	"github.com/tgienger/zt/internal/reminder"
	"github.com/tgienger/zt/internal/report"
	"github.com/tgienger/zt/internal/ui"
	"github.com/tgienger/zt/internal/ui/views"
)

type options struct {
	configPath string
	dataDir    string
}

// execute runs the CLI and returns the process exit code
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "zt",
		Short:         "Terminal task planner, calendar and notes",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	cmd.SetVersionTemplate(versionLine() + "\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/zt/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory for defaults (default $XDG_DATA_HOME/zt)")

	cmd.AddCommand(newReportCmd(stdout, opts))
	cmd.AddCommand(newVersionCmd(stdout))
	return cmd
}

func versionLine() string {
	return fmt.Sprintf("zt %s (commit: %s, built: %s)", version, commit, date)
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(stdout, versionLine())
		},
	}
}

// app holds everything opened at startup
type app struct {
	cfg *config.Config
	log *zap.SugaredLogger
	db  *db.DB
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Errorw("close database", "error", err)
	}
	_ = a.log.Sync()
}

// open loads the config, starts logging and opens the database
func open(opts *options) (*app, error) {
	dataDir := opts.dataDir
	if dataDir == "" {
		dir, err := db.DataDir()
		if err != nil {
			return nil, fmt.Errorf("find data dir: %w", err)
		}
		dataDir = dir
	}

	configPath := opts.configPath
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("find config dir: %w", err)
		}
		configPath = p
	}

	manager, err := config.NewManager(configPath, dataDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := manager.Config()

	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		log.Errorw("open database", "path", cfg.Database.Path, "error", err)
		return nil, err
	}
	log.Infow("started", "version", version, "config", manager.Path(), "database", cfg.Database.Path)

	return &app{cfg: cfg, log: log, db: database}, nil
}

func runTUI(opts *options) error {
	a, err := open(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.Seed(); err != nil {
		return fmt.Errorf("seed database: %w", err)
	}

	vault, err := notes.Open(a.cfg.Notes.Vault)
	if err != nil {
		return err
	}

	env := views.Env{
		DB:          a.db,
		Log:         a.log,
		Checker:     reminder.NewChecker(a.db, a.log),
		Exporter:    report.NewExporter(a.cfg.Report.PDFFont),
		Vault:       vault,
		ReportDir:   a.cfg.Report.Dir,
		MondayFirst: a.cfg.Calendar.WeekStartsMonday,
	}

	if a.cfg.Notes.WatchFS {
		w, err := notes.NewWatcher(vault.Root(), a.log)
		if err != nil {
			// the vault still works, it just won't see outside edits
			a.log.Warnw("watch vault", "root", vault.Root(), "error", err)
		} else {
			defer w.Close()
			env.Watcher = w
		}
	}

	p := tea.NewProgram(ui.NewApp(env, a.cfg.Reminders), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}
