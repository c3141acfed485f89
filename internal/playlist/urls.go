// Package playlist turns a merged catalog into client-facing output: media
// URLs, the M3U document, and XMLTV guide post-processing.
package playlist

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/iptvgw/xtream-gateway/internal/catalog"
)

// Credentials is the session identity media URLs are built from. These are
// the provider-echoed values, not necessarily what the client typed.
type Credentials struct {
	ServerBase string
	Username   string
	Password   string
}

// MediaURL builds the playable URL for one catalog item. The second return
// is false when the item has no playable target and must be omitted from
// the playlist, which happens for series whose episode listing is present
// but unusable.
func MediaURL(c Credentials, item catalog.StreamItem) (string, bool) {
	user := url.PathEscape(c.Username)
	pass := url.PathEscape(c.Password)

	switch item.ContentType {
	case catalog.VOD:
		ext := item.ContainerExtension
		if ext == "" {
			ext = "mp4"
		}
		return fmt.Sprintf("%s/movie/%s/%s/%s.%s", c.ServerBase, user, pass, item.StreamID, ext), true

	case catalog.Series:
		if item.Episodes == nil {
			// Provider sent no episode listing at all; point at the series
			// id and let the server resolve it.
			id := item.SeriesID
			if id == "" {
				id = item.StreamID
			}
			return fmt.Sprintf("%s/series/%s/%s/%s.mp4", c.ServerBase, user, pass, id), true
		}
		ep, ok := item.Episodes.First()
		if !ok {
			return "", false
		}
		ext := ep.ContainerExtension
		if ext == "" {
			ext = "mp4"
		}
		return fmt.Sprintf("%s/series/%s/%s/%s.%s", c.ServerBase, user, pass, ep.ID, ext), true

	default:
		return fmt.Sprintf("%s/live/%s/%s/%s.ts", c.ServerBase, user, pass, item.StreamID), true
	}
}

// EncodeTarget escapes an absolute URL for embedding as a single path
// segment under the relay routes. Unlike PathEscape it also encodes '/',
// and spaces become %20 rather than '+' so the result survives path
// handling in any client.
func EncodeTarget(raw string) string {
	return strings.ReplaceAll(url.QueryEscape(raw), "+", "%20")
}
