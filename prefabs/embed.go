// Package prefabs holds the yaml tunings and tengo scripts the game loads.
// Every file is embedded; a copy under prefabs/ on disk takes precedence so
// edits apply without a rebuild.
package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// LoadScript reads a tengo script by base name; the .tengo suffix is
// optional.
func LoadScript(name string) ([]byte, error) {
	return readPrefab(ScriptsFS, cleanScriptPath(name))
}

// Load reads a yaml prefab such as "pawn.yaml".
func Load(name string) ([]byte, error) {
	return readPrefab(PrefabsFS, cleanPrefabPath(name))
}

func readPrefab(embedded fs.FS, clean string) ([]byte, error) {
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return fs.ReadFile(embedded, clean)
}

// cleanPrefabPath strips a leading prefabs/ so callers may pass either the
// repo relative or the embedded path.
func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(p), "prefabs/")
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	s := strings.TrimPrefix(cleanPrefabPath(p), "scripts/")
	if !strings.HasSuffix(s, ".tengo") {
		s += ".tengo"
	}
	return path.Join("scripts", s)
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
