package unpack

import (
	"bytes"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// scriptRefs parses an HTML page (a background page or a web-accessible
// resource) and collects its <script> tags: external references resolved
// against the page's own path inside the archive, and inline bodies as-is.
// Malformed HTML is not an error; the parser recovers like a browser would.
func scriptRefs(content []byte, pagePath string) (srcs []string, inline []string) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, nil
	}

	for node := range doc.Descendants() {
		if node.Type != html.ElementNode || node.Data != "script" {
			continue
		}
		if src, ok := attr(node, "src"); ok {
			srcs = append(srcs, resolveRef(pagePath, src))
			continue
		}
		if body := textContent(node); strings.TrimSpace(body) != "" {
			inline = append(inline, body)
		}
	}
	return srcs, inline
}

func attr(node *html.Node, name string) (string, bool) {
	for _, a := range node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(node *html.Node) string {
	var sb strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	}
	return sb.String()
}

// resolveRef resolves a script reference relative to the page that contains
// it, mirroring URL joining against archive paths. Absolute URLs pass
// through untouched (they are filtered out later), query strings and
// fragments are stripped.
func resolveRef(pagePath, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	ref = strings.SplitN(ref, "?", 2)[0]
	ref = strings.SplitN(ref, "#", 2)[0]
	if strings.HasPrefix(ref, "/") {
		return strings.TrimPrefix(path.Clean(ref), "/")
	}
	return path.Join(path.Dir(pagePath), ref)
}
