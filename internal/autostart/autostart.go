// Package autostart registers the panel to start when the user logs in.
package autostart

import (
	"fmt"
	"os"
)

// Name identifies the entry in the OS startup list.
const Name = "deckpanel"

// Enable registers exe (or the running executable when empty) for login
// start.
func Enable(exe string) error {
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return fmt.Errorf("failed to get executable path: %w", err)
		}
	}
	return enable(exe)
}

// Disable removes the registration. Removing a missing entry is not an error.
func Disable() error {
	return disable()
}

// Enabled reports whether an entry is registered.
func Enabled() (bool, error) {
	return enabled()
}
