package tuiapp

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/almahoozi/deckpanel/internal/app"
	"github.com/almahoozi/deckpanel/internal/deck"
)

// Run launches the panel. Failing to find the config directory is fatal;
// everything after that degrades instead of stopping.
func Run() error {
	dir, err := app.ConfigDir()
	if err != nil {
		return err
	}
	if err := deck.EnsureDir(dir); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	logFile, err := app.OpenLogFile(dir)
	var logger *log.Logger
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging to stderr: %v\n", err)
		logger = app.NewLogger(os.Stderr)
	} else {
		defer logFile.Close()
		logger = app.NewLogger(logFile)
	}

	settings, err := app.LoadSettings(dir)
	if err != nil {
		logger.Warn("using default settings", "err", err)
	}
	return RunWithDir(dir, settings, logger)
}

// RunWithDir is like Run but uses a provided directory and settings.
func RunWithDir(dir string, settings app.Settings, logger *log.Logger) error {
	mdl, err := newModel(dir, settings, logger)
	if err != nil {
		return err
	}
	defer mdl.close()
	return runProgram(mdl)
}

func runProgram(m tea.Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil && err != tea.ErrProgramKilled {
		return err
	}
	return nil
}
