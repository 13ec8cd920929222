package analysis

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doublex/doublex/internal/config"
)

//go:embed apis/*.yaml
var apiFiles embed.FS

// APISelection names the sensitive APIs the engine should flag, and whether
// an API only counts when the extension holds the matching permission.
type APISelection struct {
	Source          string
	Names           []string
	PermissionGated bool
}

// DefaultAPIs is the permission-gated selection.
func DefaultAPIs() APISelection {
	sel, err := LoadAPIs(config.APIsPermissions)
	if err != nil {
		// The embedded presets are compiled in; failing to read them is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return sel
}

// LoadAPIs resolves a selection argument: one of the named presets, or a
// path to a YAML/JSON file holding a list of API names (YAML parses both).
func LoadAPIs(selection string) (APISelection, error) {
	switch selection {
	case config.APIsPermissions:
		names, err := readAPIFile(apiFiles, "apis/default.yaml")
		return APISelection{Source: selection, Names: names, PermissionGated: true}, err
	case config.APIsAll:
		names, err := readAPIFile(apiFiles, "apis/default.yaml")
		return APISelection{Source: selection, Names: names}, err
	case config.APIsEmpoweb:
		names, err := readAPIFile(apiFiles, "apis/empoweb.yaml")
		return APISelection{Source: selection, Names: names}, err
	}

	data, err := os.ReadFile(selection)
	if err != nil {
		return APISelection{}, fmt.Errorf("reading API list %s: %w", selection, err)
	}
	names, err := parseAPIList(data)
	if err != nil {
		return APISelection{}, fmt.Errorf("parsing API list %s: %w", selection, err)
	}
	return APISelection{Source: selection, Names: names}, nil
}

func readAPIFile(fsys embed.FS, path string) ([]string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseAPIList(data)
}

// parseAPIList accepts either a bare sequence of API names or a mapping
// with an `apis` key, in YAML or JSON.
func parseAPIList(data []byte) ([]string, error) {
	var names []string
	if err := yaml.Unmarshal(data, &names); err == nil && len(names) > 0 {
		return names, nil
	}

	var wrapped struct {
		APIs []string `yaml:"apis"`
	}
	if err := yaml.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	if len(wrapped.APIs) == 0 {
		return nil, fmt.Errorf("no API names found")
	}
	return wrapped.APIs, nil
}
