package unpack

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/doublex/doublex/internal/config"
)

// Unpacker extracts the analyzable components of a packed extension:
// manifest, content scripts, background scripts/page, and web-accessible
// resources, each concatenated into a single file the analysis pipeline
// consumes.
type Unpacker struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Unpacker {
	if log == nil {
		log = slog.Default()
	}
	return &Unpacker{log: log}
}

// UnpackExtension unpacks one .crx into dest/<extension-id>/. Extensions
// that cannot be analyzed (themes, unreadable manifests, unsupported
// manifest versions) are skipped without error, matching the batch
// pipeline's "keep going" contract.
func (u *Unpacker) UnpackExtension(crxPath, dest string) error {
	extensionID := strings.TrimSuffix(filepath.Base(crxPath), config.CrxFileExt)
	dest = filepath.Join(dest, extensionID)

	// CRX files are zip archives with a signing header prepended;
	// archive/zip tolerates the leading bytes.
	zr, err := zip.OpenReader(crxPath)
	if err != nil {
		u.log.Warn("not a readable archive, skipping", "crx", crxPath, "error", err)
		return nil
	}
	defer zr.Close()

	manifestRaw := u.readFromZip(&zr.Reader, crxPath, config.ManifestName)
	manifest, err := ParseManifest(manifestRaw)
	if err != nil {
		u.log.Warn("unreadable manifest, skipping", "crx", crxPath, "error", err)
		return nil
	}

	if manifest.IsTheme() {
		return nil
	}
	version := manifest.Version()
	if version != config.ManifestV2 && version != config.ManifestV3 {
		u.log.Error("only unpacking extensions with manifest version 2 or 3",
			"crx", crxPath, "version", version)
		return nil
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	indented, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("re-encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dest, config.ManifestName), indented, 0o644); err != nil {
		return err
	}

	contentScripts := u.packScripts(&zr.Reader, crxPath, manifest.ContentScripts())
	if err := os.WriteFile(filepath.Join(dest, config.ContentScriptName), []byte(contentScripts), 0o644); err != nil {
		return err
	}

	var background string
	if version == config.ManifestV2 {
		background = u.backgroundScriptsV2(&zr.Reader, crxPath, manifest)
	} else {
		background = u.backgroundScriptsV3(&zr.Reader, crxPath, manifest)
	}
	if err := os.WriteFile(filepath.Join(dest, config.BackgroundName), []byte(background), 0o644); err != nil {
		return err
	}

	wars := u.webAccessibleScripts(&zr.Reader, crxPath, manifest)
	if err := os.WriteFile(filepath.Join(dest, config.WarsName), []byte(wars), 0o644); err != nil {
		return err
	}

	u.log.Info("extracted extension components", "crx", crxPath, "dest", dest)
	return nil
}

// readFromZip returns the bytes of name inside the archive, retrying with a
// case-insensitive match the way store archives sometimes need. Missing
// files come back empty rather than failing the whole extension.
func (u *Unpacker) readFromZip(zr *zip.Reader, crxPath, name string) []byte {
	name = strings.TrimLeft(name, "./")
	name = strings.SplitN(name, "?", 2)[0]

	var rc io.ReadCloser
	if f, err := zr.Open(name); err == nil {
		rc = f
	} else {
		lower := strings.ToLower(name)
		for _, zf := range zr.File {
			if strings.ToLower(zf.Name) == lower {
				f, err := zf.Open()
				if err != nil {
					u.log.Warn("cannot open archive member", "crx", crxPath, "name", name, "error", err)
					return nil
				}
				rc = f
				break
			}
		}
	}
	if rc == nil {
		u.log.Warn("file missing from archive", "crx", crxPath, "name", name)
		return nil
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		u.log.Warn("cannot read archive member", "crx", crxPath, "name", name, "error", err)
		return nil
	}
	return data
}

// packScripts concatenates the referenced scripts into one unit, tagging
// each with its origin. Library bundles (jQuery) and remote references are
// skipped; they drown the analysis without adding extension behavior.
func (u *Unpacker) packScripts(zr *zip.Reader, crxPath string, scripts []string) string {
	var sb strings.Builder
	for _, script := range scripts {
		if skipScript(script) {
			continue
		}
		content := u.readFromZip(zr, crxPath, script)
		if len(content) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "// New file: %s\n", script)
		sb.WriteString(sanitizeScript(content))
		sb.WriteString("\n")
	}
	return sb.String()
}

func skipScript(script string) bool {
	lower := strings.ToLower(script)
	return strings.Contains(lower, "jquery") ||
		strings.Contains(lower, "jq.min.js") ||
		strings.Contains(lower, "jq.js") ||
		!strings.HasSuffix(script, ".js") ||
		strings.HasPrefix(script, "https://") ||
		strings.HasPrefix(script, "http://")
}

// sanitizeScript strips constructs the downstream AST tooling chokes on in
// concatenated bundles: strict-mode pragmas (the bundle as a whole is not
// strict) and spread ellipses.
func sanitizeScript(content []byte) string {
	s := strings.ReplaceAll(string(content), "use strict", "")
	return strings.ReplaceAll(s, "...", "")
}

func (u *Unpacker) backgroundScriptsV2(zr *zip.Reader, crxPath string, manifest Manifest) string {
	scripts := manifest.BackgroundScripts()
	var inlineParts strings.Builder

	if page := manifest.BackgroundPage(); page != "" {
		pagePath := strings.SplitN(page, "?", 2)[0]
		pagePath = strings.SplitN(pagePath, "#", 2)[0]
		content := u.readFromZip(zr, crxPath, pagePath)
		srcs, inline := scriptRefs(content, pagePath)
		for _, src := range srcs {
			if !contains(scripts, src) {
				scripts = append(scripts, src)
			}
		}
		for _, body := range inline {
			fmt.Fprintf(&inlineParts, "// New inline (from %s)\n%s\n", pagePath, body)
		}
	}

	return inlineParts.String() + u.packScripts(zr, crxPath, scripts)
}

func (u *Unpacker) backgroundScriptsV3(zr *zip.Reader, crxPath string, manifest Manifest) string {
	worker := manifest.ServiceWorker()
	if worker == "" {
		return ""
	}
	return u.packScripts(zr, crxPath, []string{worker})
}

// webAccessibleScripts collects scripts reachable through web-accessible
// HTML resources: pattern-matched .htm/.html archive members, minus the
// background page, each mined for script tags.
func (u *Unpacker) webAccessibleScripts(zr *zip.Reader, crxPath string, manifest Manifest) string {
	patterns := manifest.WebAccessibleResources()
	if len(patterns) == 0 {
		return ""
	}
	backgroundPage := manifest.BackgroundPage()

	var scripts []string
	var inlineParts strings.Builder
	for _, zf := range zr.File {
		if !strings.Contains(zf.Name, ".htm") || zf.Name == backgroundPage {
			continue
		}
		if !matchesAny(patterns, zf.Name) {
			continue
		}
		content := u.readFromZip(zr, crxPath, zf.Name)
		srcs, inline := scriptRefs(content, zf.Name)
		for _, src := range srcs {
			if !contains(scripts, src) {
				scripts = append(scripts, src)
			}
		}
		for _, body := range inline {
			fmt.Fprintf(&inlineParts, "// New inline (from %s)\n%s\n", zf.Name, body)
		}
	}

	return inlineParts.String() + u.packScripts(zr, crxPath, scripts)
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if globMatch(pattern, name) {
			return true
		}
	}
	return false
}

// globMatch matches WAR patterns where `*` crosses path separators, the way
// manifests are actually written ("*.html" is meant to match nested pages).
// path.Match stops `*` at slashes, so the wildcard handling is done here.
func globMatch(pattern, name string) bool {
	for {
		i := strings.IndexByte(pattern, '*')
		if i < 0 {
			return pattern == name
		}
		if !strings.HasPrefix(name, pattern[:i]) {
			return false
		}
		name = name[i:]
		pattern = pattern[i+1:]
		if pattern == "" {
			return true
		}
		// Try every possible expansion of this star.
		for j := 0; j <= len(name); j++ {
			if globMatch(pattern, name[j:]) {
				return true
			}
		}
		return false
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
