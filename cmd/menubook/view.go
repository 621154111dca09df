package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/menubook/internal/config"
	"github.com/csheth/menubook/internal/hostbridge"
	"github.com/csheth/menubook/internal/menu"
	"github.com/csheth/menubook/internal/tui"
)

var (
	noAltScreen bool
	watchSource bool
	logFile     string
)

var viewCmd = &cobra.Command{
	Use:   "view [source]",
	Short: "Open a menu as a book in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, src, err := loadSettings(args)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("watch") {
			cfg.Watch.Enabled = watchSource
		}
		if logFile != "" {
			cfg.LogFile = logFile
		}
		return runView(cfg, src)
	},
}

func init() {
	viewCmd.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	viewCmd.Flags().BoolVar(&watchSource, "watch", false, "reload the menu when the source file changes")
	viewCmd.Flags().StringVar(&logFile, "log-file", "", "write debug logs to this file")
	rootCmd.AddCommand(viewCmd)
}

func runView(cfg *config.Config, src menu.Source) error {
	// The terminal belongs to the TUI, so logs only go to a file.
	logger := log.New(io.Discard, "", 0)
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "menubook")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger = log.New(f, "menubook ", log.LstdFlags|log.Lmicroseconds)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	book, err := menu.Open(ctx, src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src.Path, err)
	}
	var current atomic.Pointer[menu.Book]
	current.Store(book)

	load := func(ctx context.Context) (*menu.Book, error) {
		b, err := menu.Open(ctx, src)
		if err != nil {
			return nil, err
		}
		current.Store(b)
		return b, nil
	}

	var (
		program *tea.Program
		server  *hostbridge.Server
		host    hostbridge.Notifier = hostbridge.NopNotifier{}
	)
	if cfg.Bridge.Enabled {
		hub := hostbridge.NewHub(logger)
		host = hub
		server = hostbridge.New(hostbridge.Config{
			Addr:           cfg.Bridge.Addr,
			AllowedOrigins: cfg.Bridge.AllowedOrigins,
			Logger:         logger,
		}, hub, func() []hostbridge.Section {
			var out []hostbridge.Section
			for _, s := range current.Load().Sections() {
				out = append(out, hostbridge.Section{Label: s.Label, Page: s.Page})
			}
			return out
		}, func(msg hostbridge.Message) {
			program.Send(tui.RemoteMsg{Command: msg})
		})
	}

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program = tea.NewProgram(tui.New(tui.Config{
		Book:         book,
		Load:         load,
		Timing:       cfg.FlipTiming(),
		LightboxFade: cfg.LightboxFade(),
		Accent:       cfg.Theme.Accent,
		Host:         host,
		Logger:       logger,
	}), opts...)

	if server != nil {
		go func() {
			if err := server.Start(); err != nil {
				logger.Printf("[bridge] server stopped: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Printf("[bridge] shutdown: %v", err)
			}
		}()
	}

	if cfg.Watch.Enabled && src.Remote() {
		logger.Printf("[watch] %s is remote; reload with r instead", src.Path)
	} else if cfg.Watch.Enabled {
		go func() {
			err := menu.Watch(ctx, src.Path, cfg.WatchDebounce(), logger, func() {
				program.Send(tui.SourceChangedMsg{})
			})
			if err != nil {
				logger.Printf("[watch] %v", err)
			}
		}()
	}

	_, err = program.Run()
	return err
}
