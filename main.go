package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"

	"codeflow/internal/config"
	"codeflow/internal/editor"
	"codeflow/internal/logs"
	"codeflow/internal/model"
	"codeflow/internal/narrate"
	"codeflow/internal/session"
	"codeflow/internal/trace"
	"codeflow/internal/tui"
	"codeflow/internal/web"
)

func checkUpdate(currentVer, repo string) error {
	owner, name, err := config.SplitRepo(repo)
	if err != nil {
		return errors.New("no update source configured: set update_repo in the config file")
	}
	githubTag := &latest.GithubTag{
		Owner:      owner,
		Repository: name,
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Printf("👉 Download it from https://github.com/%s/releases\n", repo)
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
	return nil
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: codeflow [options]\n\n")
		fmt.Fprintf(os.Stderr, "codeflow steps through a small Python-like program line by line,\n")
		fmt.Fprintf(os.Stderr, "showing the current line, the variables it sets and a plain-language\n")
		fmt.Fprintf(os.Stderr, "explanation of each step.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  codeflow                    # Edit and visualize the sample program\n")
		fmt.Fprintf(os.Stderr, "  codeflow -f prog.py         # Start with prog.py in the editor\n")
		fmt.Fprintf(os.Stderr, "  codeflow -f prog.py -r      # Print a step-by-step report\n")
		fmt.Fprintf(os.Stderr, "  codeflow -r -o report.txt   # Save the report to a file\n")
		fmt.Fprintf(os.Stderr, "  codeflow --json             # Output the walk as JSON\n")
		fmt.Fprintf(os.Stderr, "  codeflow --web --port 9000  # Serve the web front end\n")
	}

	configFlag := pflag.StringP("config", "c", "", "Path to an HCL config file (default: user config dir)")
	fileFlag := pflag.StringP("file", "f", "", "Load the program from this file instead of the sample")
	jsonFlag := pflag.BoolP("json", "j", false, "Walk the program and print the result as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Walk the program and print a step-by-step report")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include source context for every step in the report")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode on http://localhost:8080")
	portFlag := pflag.IntP("port", "p", web.DefaultPort, "Port for Web Mode")
	intervalFlag := pflag.Float64("interval", 1.0, "Auto-play interval in seconds (0.1 to 2.0)")
	logFileFlag := pflag.String("log-file", "", "Write logs to this file")
	logLevelFlag := pflag.String("log-level", "", "Log level: debug, info, warn or error")
	noNarrationFlag := pflag.Bool("no-narration", false, "Do not request explanations")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("codeflow version %s\n", model.Version)
		return
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if pflag.Lookup("interval").Changed {
		cfg.PlaybackInterval = config.SecondsToDuration(*intervalFlag)
	}
	if *logFileFlag != "" {
		cfg.LogFile = *logFileFlag
	}
	if *logLevelFlag != "" {
		if err := config.ValidateLogLevel(*logLevelFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.LogLevel = *logLevelFlag
	}
	if *noNarrationFlag {
		cfg.Narration.Enabled = false
	}

	if *updateFlag {
		if err := checkUpdate(model.Version, cfg.UpdateRepo); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// The terminal UI owns the screen, so it logs to the file only.
	logOpts := logs.Options{Level: cfg.LogLevel, File: cfg.LogFile}
	if *webFlag {
		logOpts.Extra = os.Stderr
	}
	logger, closeLog, err := logs.New(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	buf := editor.New()
	if *fileFlag != "" {
		lines, err := model.ReadSourceLines(*fileFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *fileFlag, err)
			os.Exit(1)
		}
		buf = editor.NewFromLines(lines)
	}

	fetcher := newFetcher(cfg.Narration, logger)

	switch {
	case *webFlag:
		err = web.StartServer(ctx, newSession(buf, fetcher, cfg, logger), *portFlag, logger)
	case *reportFlag:
		err = runReportMode(ctx, buf.Lines(), fetcher, logger, *outputFlag, *verboseFlag)
	case *jsonFlag:
		err = runJsonMode(ctx, buf.Lines(), fetcher, logger)
	default:
		err = runTuiMode(ctx, newSession(buf, fetcher, cfg, logger), logger)
	}
	if err != nil {
		logger.Error("exiting", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path, true)
	}
	return config.Load(config.DefaultPath(), false)
}

// newFetcher returns nil when narration is off or no key is available.
func newFetcher(n config.Narration, logger *slog.Logger) narrate.Fetcher {
	if !n.Enabled {
		logger.Info("narration disabled")
		return nil
	}
	if n.APIKey() == "" {
		logger.Info("narration disabled: no API key", "env", n.APIKeyEnv)
		return nil
	}
	return narrate.NewClient(n.ClientConfig(), logger)
}

func newSession(buf *editor.Buffer, fetcher narrate.Fetcher, cfg config.Config, logger *slog.Logger) *session.Session {
	sess := session.New(buf, fetcher, logger)
	sess.Machine().SetInterval(cfg.PlaybackInterval)
	return sess
}

// walk steps source to the end, fetching the narration first when a
// fetcher is configured.
func walk(ctx context.Context, source []string, fetcher narrate.Fetcher, logger *slog.Logger) trace.WalkResult {
	var narration []string
	if fetcher != nil {
		lines := narrate.LinesFor(trace.BuildSteps(source))
		narration = narrate.Explain(ctx, fetcher, lines)
	}
	return trace.Walk(trace.NewMachine(logger), source, narration)
}

func runReportMode(ctx context.Context, source []string, fetcher narrate.Fetcher, logger *slog.Logger, outputFile string, verbose bool) error {
	report := trace.GenerateReport(walk(ctx, source, fetcher, logger), verbose)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(report), 0644); err != nil {
			return fmt.Errorf("writing report to %s: %w", outputFile, err)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
		return nil
	}
	fmt.Println(report)
	return nil
}

func runJsonMode(ctx context.Context, source []string, fetcher narrate.Fetcher, logger *slog.Logger) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(walk(ctx, source, fetcher, logger))
}

func runTuiMode(ctx context.Context, sess *session.Session, logger *slog.Logger) error {
	m := tui.InitialModel(ctx, sess, logger)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
