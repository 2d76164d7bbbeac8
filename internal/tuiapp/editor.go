package tuiapp

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type openKind int

const (
	openKindButtons openKind = iota
	openKindSettings
)

type externalOpenResultMsg struct {
	kind openKind
	err  error
}

// openFileInEditorCmd suspends the program and edits path in $VISUAL or
// $EDITOR. The result message arrives once the editor exits.
func openFileInEditorCmd(path string, kind openKind) tea.Cmd {
	cmd, err := buildEditorCommand(path)
	if err != nil {
		return func() tea.Msg { return externalOpenResultMsg{kind: kind, err: err} }
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalOpenResultMsg{kind: kind, err: err}
	})
}

func buildEditorCommand(path string) (*exec.Cmd, error) {
	parts := editorCommandLine(os.Getenv("VISUAL"), os.Getenv("EDITOR"), path)
	if _, err := exec.LookPath(parts[0]); err != nil {
		return nil, fmt.Errorf("unable to launch editor %q: %w", parts[0], err)
	}
	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// editorCommandLine picks the first configured editor, falling back to vi,
// and splits it so "code --wait" works.
func editorCommandLine(visual, editor, path string) []string {
	chosen := strings.TrimSpace(visual)
	if chosen == "" {
		chosen = strings.TrimSpace(editor)
	}
	if chosen == "" {
		chosen = "vi"
	}
	parts := strings.Fields(chosen)
	return append(parts, path)
}

// openButtonsJSON hands buttons.json to the user's editor. The watcher also
// picks up the change, but the result message makes the reload immediate.
func (m *model) openButtonsJSON() tea.Cmd {
	if _, err := m.store.ReadButtons(); err != nil {
		if err := m.store.Save(m.ctrl.Buttons()); err != nil {
			m.setStatus(fmt.Sprintf("Cannot prepare buttons file: %v", err))
			return nil
		}
	}
	m.setStatus("Opened buttons file in editor.")
	return openFileInEditorCmd(m.store.ButtonsPath(), openKindButtons)
}

func (m *model) handleButtonsFileResult(err error) {
	if err != nil {
		m.logger.Error("editor failed", "err", err)
		m.setStatus(fmt.Sprintf("Editor failed: %v", err))
		return
	}
	m.reloadFromDisk()
}
