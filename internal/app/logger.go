package app

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/almahoozi/deckpanel/internal/deck"
)

// LogFile receives the panel's log while the TUI owns the terminal.
const LogFile = "deckpanel.log"

func NewLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}

// OpenLogFile appends to the log file in dir. The caller closes it.
func OpenLogFile(dir string) (*os.File, error) {
	if err := deck.EnsureDir(dir); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
