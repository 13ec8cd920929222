package unpack

import "encoding/json"

// Manifest is a parsed manifest.json. Extensions in the wild carry loosely
// shaped manifests, so it stays a dynamic map and every accessor tolerates
// missing or wrongly-typed fields the way the store itself does.
type Manifest map[string]interface{}

func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Version returns the manifest_version field, or -1 when absent or malformed.
func (m Manifest) Version() int {
	switch v := m["manifest_version"].(type) {
	case float64:
		return int(v)
	case string:
		// A few store entries quote the version.
		switch v {
		case "2":
			return 2
		case "3":
			return 3
		}
	}
	return -1
}

func (m Manifest) IsTheme() bool {
	_, ok := m["theme"]
	return ok
}

// ContentScripts returns the deduplicated js entries of all content_scripts
// blocks, in declaration order.
func (m Manifest) ContentScripts() []string {
	entries, _ := m["content_scripts"].([]interface{})

	var all []string
	seen := make(map[string]bool)
	for _, entry := range entries {
		block, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		scripts, _ := block["js"].([]interface{})
		for _, s := range scripts {
			script, ok := s.(string)
			if !ok || seen[script] {
				continue
			}
			seen[script] = true
			all = append(all, script)
		}
	}
	return all
}

func (m Manifest) background() map[string]interface{} {
	bg, _ := m["background"].(map[string]interface{})
	return bg
}

// BackgroundScripts returns the background.scripts entries (manifest v2).
func (m Manifest) BackgroundScripts() []string {
	bg := m.background()
	if bg == nil {
		return nil
	}
	scripts, _ := bg["scripts"].([]interface{})

	var all []string
	seen := make(map[string]bool)
	for _, s := range scripts {
		script, ok := s.(string)
		if !ok || seen[script] {
			continue
		}
		seen[script] = true
		all = append(all, script)
	}
	return all
}

// BackgroundPage returns the background.page path (manifest v2), or "".
func (m Manifest) BackgroundPage() string {
	bg := m.background()
	if bg == nil {
		return ""
	}
	page, _ := bg["page"].(string)
	return page
}

// ServiceWorker returns the background.service_worker path (manifest v3),
// or "".
func (m Manifest) ServiceWorker() string {
	bg := m.background()
	if bg == nil {
		return ""
	}
	worker, _ := bg["service_worker"].(string)
	return worker
}

// WebAccessibleResources returns the WAR patterns, flattening both shapes:
// v2 lists patterns directly, v3 nests them under per-entry resources lists.
func (m Manifest) WebAccessibleResources() []string {
	entries, _ := m["web_accessible_resources"].([]interface{})

	var patterns []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			patterns = append(patterns, p)
		}
	}
	for _, entry := range entries {
		switch v := entry.(type) {
		case string: // v2
			add(v)
		case map[string]interface{}: // v3
			resources, _ := v["resources"].([]interface{})
			for _, r := range resources {
				if pattern, ok := r.(string); ok {
					add(pattern)
				}
			}
		}
	}
	return patterns
}

// Permissions returns the declared permission strings.
func (m Manifest) Permissions() []string {
	entries, _ := m["permissions"].([]interface{})

	var all []string
	for _, entry := range entries {
		if p, ok := entry.(string); ok {
			all = append(all, p)
		}
	}
	return all
}
