package launch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
)

// EnvFile holds extra variables for launched programs, in dotenv format.
const EnvFile = "launch.env"

// LoadEnv returns the current environment overlaid with dir/launch.env. A
// missing file is not an error.
func LoadEnv(dir string) ([]string, error) {
	base := os.Environ()
	extra, err := godotenv.Read(filepath.Join(dir, EnvFile))
	if errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return base, err
	}
	return mergeEnv(base, extra), nil
}

func mergeEnv(base []string, extra map[string]string) []string {
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key := kv
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				key = kv[:i]
				break
			}
		}
		if _, overridden := extra[key]; overridden {
			continue
		}
		out = append(out, kv)
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+extra[k])
	}
	return out
}
