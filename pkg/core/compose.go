package core

import (
	"fmt"
	"path"
	"strings"
)

// DefaultPlaceholder is the token in the head partial replaced by the page title.
const DefaultPlaceholder = "{{title}}"

// DefaultMarker is the reload marker file written at the top of the output root.
const DefaultMarker = "reload.txt"

// ReloadInterval is how often, in milliseconds, the injected snippet polls the marker.
const ReloadInterval = 1000

const reloadTemplate = `<script>
(function () {
  var last = null;
  setInterval(function () {
    fetch(%q, { cache: "no-store" })
      .then(function (res) { return res.text(); })
      .then(function (value) {
        if (last !== null && value !== last) {
          location.reload();
        }
        last = value;
      })
      .catch(function () {});
  }, %d);
})();
</script>
`

// ReloadSnippet returns the client-side poller that reloads the page when the
// content behind markerURL changes.
func ReloadSnippet(markerURL string) string {
	return fmt.Sprintf(reloadTemplate, markerURL, ReloadInterval)
}

// MarkerURL returns the marker location relative to a page at relPath, so
// pages in subdirectories still reach the marker at the output root.
func MarkerURL(relPath, marker string) string {
	depth := strings.Count(path.Clean(relPath), "/")
	return strings.Repeat("../", depth) + marker
}

// Page is the input of Compose.
type Page struct {
	Content     string
	Title       string
	Placeholder string // defaults to DefaultPlaceholder
	Reload      string // snippet appended after the footer, empty to skip
}

// Compose stitches the head (title substituted once), header, content, footer
// and optional reload snippet into one document. Content is copied verbatim.
func Compose(p Page, partials Partials) string {
	placeholder := p.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	var b strings.Builder
	b.Grow(len(partials.Head) + len(partials.Header) + len(p.Content) + len(partials.Footer) + len(p.Reload))
	b.WriteString(strings.Replace(partials.Head, placeholder, p.Title, 1))
	b.WriteString(partials.Header)
	b.WriteString(p.Content)
	b.WriteString(partials.Footer)
	b.WriteString(p.Reload)
	return b.String()
}
