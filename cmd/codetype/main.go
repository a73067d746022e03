// Package main provides the CLI entrypoint for codetype.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/codetype/internal/config"
	"github.com/verte-zerg/codetype/internal/corpus"
	"github.com/verte-zerg/codetype/internal/logger"
	"github.com/verte-zerg/codetype/internal/metrics"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/stats"
	"github.com/verte-zerg/codetype/internal/tui"
)

const (
	defaultExt      = "rs"
	defaultWords    = 10
	defaultLogLevel = "info"
)

var (
	practicePath        string
	practiceExt         string
	practiceWords       int
	practiceStrict      bool
	practiceSkipWord    bool
	practiceMinAccuracy float64

	logLevel    string
	logFile     string
	metricsFile string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "codetype [path]",
		Short:         "Typing practice on your own source code",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVarP(&practicePath, "path", "p", "", "project directory to sample from")
	rootCmd.PersistentFlags().StringVarP(&practiceExt, "ext", "t", defaultExt, "file extension to sample")
	rootCmd.Flags().IntVarP(&practiceWords, "words", "w", defaultWords, "words per round")
	rootCmd.Flags().BoolVar(&practiceStrict, "strict", false, "require an exact match to finish a round")
	rootCmd.Flags().BoolVar(&practiceSkipWord, "skip-word", false, "space skips the rest of the current word")
	rootCmd.Flags().Float64Var(&practiceMinAccuracy, "min-accuracy", 0, "hide results below this accuracy (0-100)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newFilesCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := resolveConfig(cmd, args, fileCfg)
	if err != nil {
		return err
	}

	log, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	recorder := metrics.New()
	sampler := corpus.NewSampler(nil, log)
	maxChars := viewportChars()

	sample, err := sampler.Sample(ctx, cfg, maxChars)
	recorder.Sampled(sample, err)
	reportSkipped(cmd.ErrOrStderr(), sample.Skipped)
	if err != nil {
		writeMetrics(recorder, cfg.MetricsFile)
		return err
	}

	m := tui.NewModel(cfg, sample, tui.Options{
		Sampler:  sampler,
		Metrics:  recorder,
		Logger:   log,
		MaxChars: maxChars,
		Context:  ctx,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	writeMetrics(recorder, cfg.MetricsFile)

	if err := m.Err(); err != nil {
		return err
	}
	if len(m.Results()) == 0 {
		return nil
	}
	if err := stats.RenderSummary(cmd.OutOrStdout(), m.Results()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// resolveConfig layers explicit flags over file and environment values over
// flag defaults.
func resolveConfig(cmd *cobra.Command, args []string, fileCfg config.FileConfig) (model.Config, error) {
	applyStringConfig(cmd, "path", &practicePath, fileCfg.Practice.Path)
	applyStringConfig(cmd, "ext", &practiceExt, fileCfg.Practice.Ext)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyBoolConfig(cmd, "strict", &practiceStrict, fileCfg.Practice.Strict)
	applyBoolConfig(cmd, "skip-word", &practiceSkipWord, fileCfg.Practice.SkipWordOnSpace)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	applyStringConfig(cmd, "metrics-file", &metricsFile, fileCfg.Metrics.File)

	if len(args) == 1 {
		if cmd.Flags().Changed("path") {
			return model.Config{}, fmt.Errorf("project path given both as argument and --path")
		}
		practicePath = args[0]
	}

	var minAccuracy *float64
	switch {
	case cmd.Flags().Changed("min-accuracy"):
		v := practiceMinAccuracy
		minAccuracy = &v
	case fileCfg.Practice.MinAccuracy != nil:
		v := *fileCfg.Practice.MinAccuracy
		minAccuracy = &v
	}

	cfg := model.Config{
		ProjectPath:     practicePath,
		FileExtension:   strings.TrimPrefix(strings.TrimSpace(practiceExt), "."),
		Words:           practiceWords,
		Strict:          practiceStrict,
		SkipWordOnSpace: practiceSkipWord,
		MinAccuracy:     minAccuracy,
		LogLevel:        logLevel,
		LogFile:         logFile,
		MetricsFile:     metricsFile,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.ProjectPath == "" {
		return fmt.Errorf("--path must not be empty")
	}
	if cfg.FileExtension == "" {
		return fmt.Errorf("--ext must not be empty")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.MinAccuracy != nil && (*cfg.MinAccuracy < 0 || *cfg.MinAccuracy > 100) {
		return fmt.Errorf("--min-accuracy must be between 0 and 100")
	}
	if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	return nil
}

// openLogger logs to the configured file. Without one, logs are discarded
// so they do not draw over the alternate screen.
func openLogger(cfg model.Config) (logger.Logger, func(), error) {
	if cfg.LogFile == "" {
		log, err := logger.New(io.Discard, cfg.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		return log, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log, err := logger.New(f, cfg.LogLevel)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return log, func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
}

// viewportChars is the number of cells the typing view can fill in the
// terminal, or 0 when stdout is not a terminal.
func viewportChars() int {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return tui.TextCapacity(w, h)
}

func writeMetrics(recorder *metrics.Recorder, path string) {
	if path == "" {
		return
	}
	if err := recorder.WriteTextfile(path); err != nil {
		logErrf("failed to write metrics: %v\n", err)
	}
}

func reportSkipped(w io.Writer, skipped []corpus.Skipped) {
	for _, sk := range skipped {
		if _, err := fmt.Fprintf(w, "skipped %s: %v\n", sk.Path, sk.Err); err != nil {
			return
		}
	}
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
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless path already exists.
func ensureConfigFile(path string) error {
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# codetype configuration
# Uncomment a value to enable it. CLI flags override config values,
# and %sTABLE__KEY environment variables override this file.

[practice]
# path = "~/src/project"  # Project directory to sample from
# ext = %q                # File extension to sample
# words = %d              # Words per round
# strict = false          # Require an exact match to finish a round
# skip_word = false       # Space skips the rest of the current word
# min_accuracy = 90.0     # Hide results below this accuracy

[log]
# level = %q              # debug, info, warn or error
# file = ""               # Log file; logs are discarded when empty

[metrics]
# file = ""               # Prometheus textfile written on exit
`,
		config.EnvPrefix,
		defaultExt,
		defaultWords,
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
