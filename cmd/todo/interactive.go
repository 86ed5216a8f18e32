package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SangamNirala/TodoList/internal/config"
	"github.com/SangamNirala/TodoList/internal/decompose"
	"github.com/SangamNirala/TodoList/internal/tui"
)

func runInteractive() error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	// Breakdown debug log lives next to the database
	logPath := filepath.Join(filepath.Dir(env.dbPath), "logs", "decompose.log")
	logger, err := decompose.NewDebugLogger(logPath)
	if err != nil {
		logger = decompose.NopLogger()
	}
	defer logger.Close()

	coordinator := decompose.New(decompose.Config{
		Store:     env.store,
		Generator: newGenerator(env.cfg),
		Logger:    logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Saves come from the TUI loop and the event forwarder
	var saveMu sync.Mutex
	persist := func() error {
		saveMu.Lock()
		defer saveMu.Unlock()
		return env.save()
	}

	var initialNotice string
	if !config.HasGenerationCredentials(env.cfg) {
		initialNotice = "No API key configured; task breakdown is disabled"
	}

	program, _ := tui.NewProgram(tui.AppConfig{
		Store:          env.store,
		Coordinator:    coordinator,
		Persist:        persist,
		Context:        ctx,
		NoticeDuration: env.cfg.TUI.NoticeDuration,
		InitialNotice:  initialNotice,
	})

	// Set up signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		program.Quit()
	}()

	// Suppress log output while the TUI owns the terminal
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	// Forward breakdown outcomes into the TUI
	go forwardGenerationEvents(ctx, coordinator, program, persist)

	_, runErr := program.Run()
	log.SetOutput(originalOutput)
	signal.Stop(sigCh)

	// Stop in-flight breakdowns, let them settle, then snapshot once more
	cancel()
	coordinator.Close()
	if err := persist(); err != nil {
		log.Printf("warning: final save failed: %v", err)
	}

	if runErr != nil {
		return fmt.Errorf("run TUI: %w", runErr)
	}
	return nil
}

// forwardGenerationEvents relays breakdown outcomes to the TUI and
// snapshots the store after each applied decomposition.
func forwardGenerationEvents(ctx context.Context, coordinator *decompose.Coordinator, program *tea.Program, persist func() error) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-coordinator.Events():
			if !ok {
				return
			}

			if ev.Type == decompose.EventDecomposed {
				if err := persist(); err != nil {
					log.Printf("warning: save after breakdown failed: %v", err)
				}
			}

			program.Send(tui.GenerationEventMsg{Event: ev})
		}
	}
}
