package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/almahoozi/deckpanel/internal/autostart"
	"github.com/almahoozi/deckpanel/internal/deck"
)

type BuildInfo struct {
	Commit  string
	Ref     string
	Version string
}

// Run executes one deckpanel-cli command against the config directory.
func Run(args []string, build BuildInfo) error {
	return run(args, build, os.Stdout, NewLogger(os.Stderr))
}

func run(args []string, build BuildInfo, out io.Writer, logger *log.Logger) error {
	if len(args) == 0 {
		fmt.Fprintln(out, UsageText())
		return nil
	}

	switch args[0] {
	case "help", "-h", "--help":
		fmt.Fprintln(out, UsageText())
		return nil
	case "version", "-v", "--version":
		fmt.Fprintf(out, "%s %s %s %s\n", appName, build.Commit, build.Ref, build.Version)
		return nil
	case "autostart":
		return RunAutostart(args[1:], out)
	}

	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := deck.EnsureDir(dir); err != nil {
		return err
	}
	store := deck.NewFileStore(dir, logger)

	switch args[0] {
	case "ls":
		return RunLS(args[1:], store, out)
	case "list":
		return RunList(store, out)
	case "add":
		return RunAdd(args[1:], newController(store, logger), out)
	case "rm":
		return RunRemove(args[1:], newController(store, logger), out)
	case "icon":
		return RunIcon(args[1:], newController(store, logger), out)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], UsageText())
	}
}

func UsageText() string {
	return strings.TrimSpace(`deckpanel-cli - manage the deckpanel launcher grid

Usage:
  deckpanel-cli ls                 Print the config directory path
  deckpanel-cli ls buttons         Print the buttons file path
  deckpanel-cli ls settings        Print the settings file path
  deckpanel-cli list               List buttons with their indices
  deckpanel-cli add <label> <target> [icon]
                                   Append a button
  deckpanel-cli rm <index>         Remove the button at index (1-based)
  deckpanel-cli icon <index> <file>
                                   Copy an image into the icon folder and use it for the button
  deckpanel-cli autostart enable [path]
                                   Start the panel at login
  deckpanel-cli autostart disable  Stop starting the panel at login
  deckpanel-cli autostart status   Show whether the panel starts at login
  deckpanel-cli help               Show this help message
  deckpanel-cli version            Show build metadata

Examples:
  deckpanel-cli add Terminal "cmd gnome-terminal"
  deckpanel-cli add Notes ~/notes.txt
  deckpanel-cli icon 2 ~/Pictures/terminal.png`)
}

func RunLS(args []string, store *deck.FileStore, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(out, store.Dir())
		return nil
	}
	switch args[0] {
	case "buttons":
		if _, err := os.Stat(store.ButtonsPath()); errors.Is(err, os.ErrNotExist) {
			store.Load()
		} else if err != nil {
			return err
		}
		fmt.Fprintln(out, store.ButtonsPath())
	case "settings":
		if _, err := LoadSettings(store.Dir()); err != nil {
			return err
		}
		fmt.Fprintln(out, SettingsFilePath(store.Dir()))
	default:
		return fmt.Errorf("unknown ls target %q", args[0])
	}
	return nil
}

func RunList(store *deck.FileStore, out io.Writer) error {
	buttons := store.Load()
	if len(buttons) == 0 {
		fmt.Fprintln(out, "No buttons configured.")
		return nil
	}
	pages := deck.PageCount(len(buttons), deck.PageSize)
	for i, b := range buttons {
		if i%deck.PageSize == 0 {
			fmt.Fprintf(out, "Page %d/%d\n", i/deck.PageSize+1, pages)
		}
		label := b.Label
		if strings.TrimSpace(label) == "" {
			label = "(no label)"
		}
		line := fmt.Sprintf("  [%d] %s -> %s", i+1, label, b.Target)
		if b.HasIcon() {
			line += fmt.Sprintf(" (icon %s)", b.Icon)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func newController(store *deck.FileStore, logger *log.Logger) *deck.Controller {
	return deck.NewController(store, deck.NewIconAssigner(store.Dir()), deck.Options{Logger: logger})
}

func RunAdd(args []string, ctrl *deck.Controller, out io.Writer) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: deckpanel-cli add <label> <target> [icon]")
	}
	btn := deck.Button{Label: args[0], Target: args[1]}
	if len(args) == 3 {
		btn.Icon = args[2]
	}
	err := ctrl.Mutate(func(list *deck.ButtonList) error {
		list.Append(btn)
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Added button %d.\n", ctrl.Len())
	return nil
}

func RunRemove(args []string, ctrl *deck.Controller, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: deckpanel-cli rm <index>")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	err = ctrl.Mutate(func(list *deck.ButtonList) error {
		return list.RemoveAt(idx)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed button %d.\n", idx+1)
	return nil
}

func RunIcon(args []string, ctrl *deck.Controller, out io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: deckpanel-cli icon <index> <file>")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	var rel string
	err = ctrl.Mutate(func(list *deck.ButtonList) error {
		var assignErr error
		rel, assignErr = ctrl.Icons().Assign(list, idx, args[1])
		return assignErr
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Button %d now uses %s.\n", idx+1, rel)
	return nil
}

// parseIndex turns a 1-based index from the command line into a list index.
func parseIndex(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid button index %q", raw)
	}
	return n - 1, nil
}

func RunAutostart(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: deckpanel-cli autostart enable|disable|status")
	}
	switch args[0] {
	case "enable":
		exe := ""
		if len(args) > 1 {
			exe = args[1]
		} else {
			found, err := panelExecutable()
			if err != nil {
				return err
			}
			exe = found
		}
		abs, err := filepath.Abs(exe)
		if err != nil {
			return err
		}
		if err := autostart.Enable(abs); err != nil {
			return err
		}
		fmt.Fprintf(out, "Autostart enabled for %s.\n", abs)
	case "disable":
		if err := autostart.Disable(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Autostart disabled.")
	case "status":
		on, err := autostart.Enabled()
		if err != nil {
			return err
		}
		if on {
			fmt.Fprintln(out, "Autostart is enabled.")
		} else {
			fmt.Fprintln(out, "Autostart is disabled.")
		}
	default:
		return fmt.Errorf("unknown autostart action %q", args[0])
	}
	return nil
}

// panelExecutable looks for the panel binary installed beside this one.
func panelExecutable() (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	name := appName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	candidate := filepath.Join(filepath.Dir(self), name)
	if info, err := os.Stat(candidate); err != nil || info.IsDir() {
		return "", fmt.Errorf("cannot find %s next to %s; pass its path to autostart enable", name, self)
	}
	return candidate, nil
}
