package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/pitwall/internal/apiclient"
	"github.com/tinytelemetry/pitwall/internal/boot"
	"github.com/tinytelemetry/pitwall/internal/logging"
	"github.com/tinytelemetry/pitwall/internal/query"
	"github.com/tinytelemetry/pitwall/internal/reference"
	"github.com/tinytelemetry/pitwall/internal/tui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var apiURL string
	var state string
	var skipBoot bool
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/pitwall/config.yml)")
	flag.StringVar(&apiURL, "api-url", "", "override the prediction backend URL")
	flag.StringVar(&state, "state", "", "initial view as a query string, e.g. tab=race&round=5&driver=VER")
	flag.BoolVar(&skipBoot, "skip-boot", false, "skip the boot sequence")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Pitwall - F1 Prediction Dashboard\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if skipBoot {
		cfg.SkipBoot = true
	}

	final, err := runTUI(cfg, state)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(final) > 0 {
		fmt.Printf("pitwall -state '%s'\n", final.String())
	}
}

// runTUI runs the dashboard from the state query string and returns the
// parameter set it ended on.
func runTUI(cfg cliConfig, state string) (query.Params, error) {
	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	initial, err := query.ParseParams(state)
	if err != nil {
		logger.WithError(err).Warn("pitwall: ignoring malformed state pairs")
	}

	season, err := reference.Load()
	if err != nil {
		return nil, err
	}

	client, err := apiclient.New(cfg.APIURL, apiclient.Options{
		Logger:    logger,
		UserAgent: "pitwall/" + version,
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"api_url": client.BaseURL(),
		"version": version,
		"state":   initial.String(),
	}).Info("pitwall: starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dashboard := tui.NewDashboard(ctx, initial, tui.Deps{
		Source:                 client,
		Season:                 season,
		Logger:                 logger,
		Timeout:                cfg.RequestTimeout,
		RaceIterations:         cfg.RaceIterations,
		ChampionshipIterations: cfg.ChampionshipIterations,
		BacktestIterations:     cfg.BacktestIterations,
	})
	defer dashboard.Close()

	pages := []tui.Page{tui.NewDashboardPage(dashboard)}
	if !cfg.SkipBoot {
		seq, err := boot.New(boot.DefaultSteps, boot.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		defer seq.Cancel()
		pages = append([]tui.Page{tui.NewBootPage(seq, logger)}, pages...)
	}
	app := tui.NewApp(pages...)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return nil, fmt.Errorf("TUI requires a real terminal")
		}
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	return dashboard.Params(), nil
}
