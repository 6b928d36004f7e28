package levels

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var LevelsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Load reads a level file, preferring a disk copy under levels/ so edited
// files (and the hot-reload watcher) win over the embedded defaults.
func Load(name string) ([]byte, error) {
	clean := cleanLevelPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return LevelsFS.ReadFile(clean)
}

// LoadLevel loads and parses a level spec by name (".yaml" optional).
func LoadLevel(name string) (*LevelSpec, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	return Parse(data)
}

// ForVariant loads the default level file for a variant.
func ForVariant(variant string) (*LevelSpec, error) {
	return LoadLevel(variant + ".yaml")
}

// LoadScript reads a hazard motion script, preferring a disk copy.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(filepath.Join("levels", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// Dir is the on-disk directory the watcher observes.
func Dir() string {
	return "levels"
}

func diskPath(clean string) string {
	return filepath.Join("levels", filepath.FromSlash(clean))
}

func cleanLevelPath(path string) string {
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "levels/")
	if !strings.HasSuffix(s, ".yaml") && !strings.HasSuffix(s, ".yml") {
		s += ".yaml"
	}
	return s
}

func cleanScriptPath(path string) string {
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "levels/")
	if !strings.HasPrefix(s, "scripts/") {
		s = "scripts/" + s
	}
	if !strings.HasSuffix(s, ".tengo") {
		s += ".tengo"
	}
	return s
}
