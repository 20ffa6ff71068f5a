package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/pitwall/internal/logging"
	"github.com/tinytelemetry/pitwall/internal/reference"
	"github.com/tinytelemetry/pitwall/internal/stubserver"
)

// runServer serves the stub API until SIGINT or SIGTERM.
func runServer(cfg stubConfig) error {
	logger, closer, err := logging.New(logging.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	season, err := reference.Load()
	if err != nil {
		return err
	}

	srv := stubserver.New(season, stubserver.Options{
		Addr:    cfg.Addr,
		Latency: cfg.Latency,
		Jitter:  cfg.Jitter,
		Seed:    cfg.Seed,
		Logger:  logger,
	})
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start stub server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	printStartupBanner(cfg, srv.Addr())
	logger.WithFields(logrus.Fields{
		"addr":    srv.Addr(),
		"latency": cfg.Latency,
		"jitter":  cfg.Jitter,
		"seed":    cfg.Seed,
	}).Info("stub: serving")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-sigCh:
			fmt.Println("\nShutting down gracefully...")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownDone := make(chan error, 1)
		go func() { shutdownDone <- srv.Stop() }()

		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case err := <-shutdownDone:
			return err
		case <-sigCh:
			return fmt.Errorf("forced shutdown")
		case <-deadline.C:
			return fmt.Errorf("shutdown timed out")
		}
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Warn("stub: shutdown")
		return err
	}
	logger.Info("stub: stopped")
	return nil
}

func printStartupBanner(cfg stubConfig, addr string) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("#E8002D"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, "    "+red.Bold(true).Render("PITWALL STUB")+" "+dim.Render("v"+version))
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Prediction API"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Listening      %s", check, "http://"+addr))
	lines = append(lines, fmt.Sprintf("    %s  Latency        %s", check, dim.Render(fmt.Sprintf("%s + up to %s", cfg.Latency, cfg.Jitter))))
	lines = append(lines, fmt.Sprintf("    %s  Seed           %s", check, dim.Render(fmt.Sprint(cfg.Seed))))
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(cfg.ConfigPath)))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}
