package deck

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// IconsDir is the managed icon folder, relative to the config directory.
const IconsDir = "images"

var (
	iconExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
	unsafeNameChar = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
)

// IconAssigner copies dropped images into the managed icon folder and points
// a button at the copy.
type IconAssigner struct {
	configDir string
}

func NewIconAssigner(configDir string) *IconAssigner {
	return &IconAssigner{configDir: configDir}
}

// SafeIconName replaces every character outside [A-Za-z0-9_.-] with '_'.
func SafeIconName(name string) string {
	return unsafeNameChar.ReplaceAllString(name, "_")
}

func IsIconFile(name string) bool {
	return iconExtensions[strings.ToLower(filepath.Ext(name))]
}

// Assign copies source into the icon folder and sets the button's icon to the
// relative path of the copy, clearing its label. The button is only touched
// once the copy has fully succeeded. A file already holding the same safe name
// is overwritten.
func (a *IconAssigner) Assign(list *ButtonList, index int, source string) (string, error) {
	base := filepath.Base(source)
	if !IsIconFile(base) {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileType, base)
	}
	btn, err := list.Get(index)
	if err != nil {
		return "", err
	}

	folder := filepath.Join(a.configDir, IconsDir)
	if err := EnsureDir(folder); err != nil {
		return "", fmt.Errorf("%w: %v", ErrIO, err)
	}
	safe := SafeIconName(base)
	if err := copyFile(source, filepath.Join(folder, safe)); err != nil {
		return "", fmt.Errorf("%w: copy %s: %v", ErrIO, source, err)
	}

	rel := path.Join(IconsDir, safe)
	btn.Icon = rel
	btn.Label = ""
	if err := list.Replace(index, btn); err != nil {
		return "", err
	}
	return rel, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, dst); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

// ResolveIcon finds an icon on disk: first under the config directory, then
// under the bundled assets directory. Bundled icons are never copied.
func ResolveIcon(configDir, assetsDir, icon string) (string, bool) {
	icon = strings.TrimSpace(icon)
	if icon == "" {
		return "", false
	}
	rel := filepath.FromSlash(icon)
	for _, root := range []string{configDir, assetsDir} {
		if root == "" {
			continue
		}
		candidate := filepath.Join(root, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
