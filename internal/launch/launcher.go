// Package launch runs button targets: shell commands, documents and the
// voice access shortcut.
package launch

import (
	"errors"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/toqueteos/webbrowser"
	"golang.org/x/time/rate"
)

// ErrCoolingDown is returned when the same target is hit again before its
// cooldown expired, usually a bounced touch.
var ErrCoolingDown = errors.New("target launched moments ago")

// Options configure a Launcher.
type Options struct {
	Marker   string
	Env      []string
	Cooldown time.Duration
	Logger   *log.Logger
}

// Launcher starts targets without waiting for them.
type Launcher struct {
	marker   string
	env      []string
	cooldown time.Duration
	logger   *log.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	start func(cmd *exec.Cmd) error
	open  func(u string) error
}

func New(opts Options) *Launcher {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	marker := opts.Marker
	if strings.TrimSpace(marker) == "" {
		marker = "cmd "
	}
	l := &Launcher{
		marker:   marker,
		env:      opts.Env,
		cooldown: opts.Cooldown,
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
		open:     webbrowser.Open,
	}
	l.start = l.startDetached
	return l
}

// IsCommand reports whether target is a shell command rather than a path.
func (l *Launcher) IsCommand(target string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(target)), strings.ToLower(l.marker))
}

// Launch runs a command target through the shell or opens anything else with
// the OS default handler.
func (l *Launcher) Launch(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}
	if !l.allow(target) {
		l.logger.Debug("ignoring repeated launch", "target", target)
		return ErrCoolingDown
	}
	if l.IsCommand(target) {
		command := strings.TrimSpace(target[len(l.marker):])
		if err := l.start(l.shellCommand(command)); err != nil {
			l.logger.Error("failed to run command", "command", command, "err", err)
			return err
		}
		l.logger.Info("ran command", "command", command)
		return nil
	}
	u := targetURL(target)
	if err := l.open(u); err != nil {
		l.logger.Error("failed to launch path", "target", target, "err", err)
		return err
	}
	l.logger.Info("opened target", "target", target)
	return nil
}

// ToggleVoiceAccess sends the OS voice access shortcut.
func (l *Launcher) ToggleVoiceAccess(active bool) error {
	if runtime.GOOS != "windows" {
		l.logger.Warn("voice access toggle is only supported on Windows", "active", active)
		return errors.ErrUnsupported
	}
	cmd := exec.Command("powershell", "-Command",
		"$wshell = New-Object -ComObject wscript.shell; $wshell.SendKeys('^({LWIN}n)')")
	if err := l.start(cmd); err != nil {
		l.logger.Error("failed to toggle voice access", "err", err)
		return err
	}
	return nil
}

func (l *Launcher) allow(target string) bool {
	if l.cooldown <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[target]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.cooldown), 1)
		l.limiters[target] = lim
	}
	return lim.Allow()
}

func (l *Launcher) shellCommand(command string) *exec.Cmd {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", command)
	} else {
		cmd = exec.Command("sh", "-c", command)
	}
	cmd.Env = l.env
	return cmd
}

// targetURL turns a filesystem path into a file URL; anything that already
// carries a scheme is passed through.
func targetURL(target string) string {
	if u, err := url.Parse(target); err == nil && len(u.Scheme) > 1 && u.Host+u.Opaque+u.Path != "" {
		return target
	}
	path := target
	if abs, err := filepath.Abs(target); err == nil {
		path = abs
	}
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}

// startDetached starts cmd and reaps it in the background; a non-zero exit is
// only logged.
func (l *Launcher) startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			l.logger.Error("launched process failed", "cmd", cmd.String(), "err", err)
		}
	}()
	return nil
}
