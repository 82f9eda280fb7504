// Package manifest resolves a pack's document type from an installed
// package's manifest, a minimal stand-in for the host application's
// package-management layer (spec §1's "manifest discovery" collaborator).
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PackEntry is one declared pack inside a package manifest.
type PackEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Package is a single installed-package manifest file.
type Package struct {
	ID    string      `json:"id"`
	Type  string      `json:"type"`
	Packs []PackEntry `json:"packs"`
}

// Registry resolves a pack name to its declared document type across all
// manifests found under a directory of installed packages.
type Registry struct {
	byPackName map[string]string
}

// Load scans dir for `*.json` manifest files, one per installed package,
// and indexes each declared pack's name to its document type. Malformed
// manifest files are skipped rather than failing the whole scan, since a
// single broken package shouldn't block resolution for the rest.
func Load(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("manifest: reading %s: %w", dir, err)
	}

	reg := &Registry{byPackName: make(map[string]string)}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		var pkg Package
		if err := json.Unmarshal(data, &pkg); err != nil {
			continue
		}
		for _, p := range pkg.Packs {
			reg.byPackName[p.Name] = p.Type
		}
	}
	return reg, nil
}

// DocumentType returns the document type declared for packName, and
// whether it was found.
func (r *Registry) DocumentType(packName string) (string, bool) {
	t, ok := r.byPackName[packName]
	return t, ok
}
