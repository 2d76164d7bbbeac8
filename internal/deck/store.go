package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	ButtonsFile    = "buttons.json"
	BackgroundFile = "background.json"
)

// Store persists the button list and the background color preference.
type Store interface {
	Load() []Button
	Save(buttons []Button) error
	LoadColor() (string, bool)
	SaveColor(hex string) error
}

type colorPreference struct {
	Hex string `json:"hex"`
}

// FileStore keeps both documents as JSON files in one directory.
type FileStore struct {
	dir    string
	logger *log.Logger
}

func NewFileStore(dir string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.Default()
	}
	return &FileStore{dir: dir, logger: logger}
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) ButtonsPath() string {
	return filepath.Join(s.dir, ButtonsFile)
}

func (s *FileStore) BackgroundPath() string {
	return filepath.Join(s.dir, BackgroundFile)
}

// Load never fails. A missing or unreadable buttons.json is replaced with an
// empty list on disk.
func (s *FileStore) Load() []Button {
	buttons, err := s.ReadButtons()
	if err == nil {
		return buttons
	}
	if errors.Is(err, ErrNotFound) {
		s.logger.Info("no buttons file, starting empty", "path", s.ButtonsPath())
	} else {
		s.logger.Error("discarding unreadable buttons file", "path", s.ButtonsPath(), "err", err)
	}
	if err := s.Save(nil); err != nil {
		s.logger.Error("failed to reset buttons file", "err", err)
	}
	return []Button{}
}

// ReadButtons reads buttons.json without any self-healing.
func (s *FileStore) ReadButtons() ([]Button, error) {
	data, err := os.ReadFile(s.ButtonsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.ButtonsPath())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	var buttons []Button
	if err := json.Unmarshal(data, &buttons); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if buttons == nil {
		buttons = []Button{}
	}
	return buttons, nil
}

func (s *FileStore) Save(buttons []Button) error {
	if buttons == nil {
		buttons = []Button{}
	}
	data, err := json.MarshalIndent(buttons, "", "  ")
	if err != nil {
		return err
	}
	return s.write(s.ButtonsPath(), data)
}

// LoadColor treats a missing, malformed or empty preference as absent.
func (s *FileStore) LoadColor() (string, bool) {
	data, err := os.ReadFile(s.BackgroundPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("cannot read background preference", "err", err)
		}
		return "", false
	}
	var pref colorPreference
	if err := json.Unmarshal(data, &pref); err != nil {
		s.logger.Warn("ignoring malformed background preference", "err", err)
		return "", false
	}
	hex := strings.TrimSpace(pref.Hex)
	if hex == "" {
		return "", false
	}
	return hex, true
}

func (s *FileStore) SaveColor(hex string) error {
	data, err := json.Marshal(colorPreference{Hex: hex})
	if err != nil {
		return err
	}
	return s.write(s.BackgroundPath(), data)
}

func (s *FileStore) write(path string, data []byte) error {
	if err := EnsureDir(s.dir); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// WriteFileAtomic writes data next to path and renames it into place so a
// reader never observes a half-written file.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, perm); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
