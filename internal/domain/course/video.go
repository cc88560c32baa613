package course

import (
	"net/url"
	"strings"
)

const embedBase = "https://www.youtube.com/embed/"

var watchHosts = map[string]bool{
	"www.youtube.com": true,
	"youtube.com":     true,
	"m.youtube.com":   true,
}

// EmbedURL turns a YouTube watch-page or youtu.be link into an embeddable player URL.
// Other absolute URLs are returned unchanged; a value that is not an absolute URL
// yields "" so nothing is embedded.
func EmbedURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if watchHosts[host] && u.Path == "/watch" {
		if id := u.Query().Get("v"); id != "" {
			return embedBase + id
		}
	}
	if host == "youtu.be" {
		if id := strings.TrimPrefix(u.Path, "/"); id != "" {
			return embedBase + id
		}
	}
	return raw
}
