package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"cargodesk/cmd"
	"cargodesk/internal/api"
	"cargodesk/internal/logging"
	"cargodesk/internal/prefs"
	"cargodesk/internal/ui"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	config, err := cmd.ParseFlags(version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if config.Serve {
		if err := runServe(config); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runDashboard(config); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runServe exposes the authenticated proxy as a standalone HTTP server.
func runServe(config *cmd.Config) error {
	logger, err := logging.NewServe(config.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	server := newAPIServer(config, logger)
	logger.Info("listening", zap.String("addr", config.Listen))
	return http.ListenAndServe(config.Listen, server.Handler())
}

// runDashboard starts the proxy on an ephemeral loopback port and runs the
// terminal UI against it.
func runDashboard(config *cmd.Config) error {
	logger, err := logging.NewDashboard(config.LogPath, config.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to bind loopback listener: %w", err)
	}

	server := &http.Server{Handler: newAPIServer(config, logger).Handler()}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("proxy server stopped", zap.Error(err))
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	kv, closeKV, err := openKV(config)
	if err != nil {
		return err
	}
	defer closeKV()

	baseURL := "http://" + listener.Addr().String()
	app := ui.New(kv, baseURL, logger)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

func newAPIServer(config *cmd.Config, logger *zap.Logger) *api.Server {
	session := api.NewStaticSession(config.Token, config.Username)
	proxy := api.NewProxy(config.APIBaseURL, session, logger)
	return api.NewServer(proxy, session, logger)
}

// openKV picks the preference backend. Failures fall back to an in-memory
// store so the dashboard still starts; preferences just won't persist.
func openKV(config *cmd.Config) (prefs.KV, func(), error) {
	noop := func() {}
	switch config.PrefsBackend {
	case "sqlite":
		kv, err := prefs.OpenSQLiteKV(config.PrefsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ℹ  Preference store unavailable (%v); using in-memory store\n", err)
			return prefs.NewMemoryKV(), noop, nil
		}
		return kv, func() { _ = kv.Close() }, nil
	default:
		kv, err := prefs.OpenFileKV(config.PrefsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ℹ  Preference store unavailable (%v); using in-memory store\n", err)
			return prefs.NewMemoryKV(), noop, nil
		}
		return kv, noop, nil
	}
}
