package playlist

import (
	"fmt"
	"strings"

	"github.com/iptvgw/xtream-gateway/internal/catalog"
	"github.com/iptvgw/xtream-gateway/internal/groupfilter"
)

// ProxyOptions controls whether rendered URLs point at the provider
// directly or at the gateway's relay routes. Logos and streams toggle
// independently.
type ProxyOptions struct {
	Base         string // gateway origin, no trailing slash; "" disables both
	ProxyLogos   bool
	ProxyStreams bool
}

// LogoURL wraps an icon URL in the image relay when enabled.
func (p ProxyOptions) LogoURL(raw string) string {
	if raw == "" || p.Base == "" || !p.ProxyLogos {
		return raw
	}
	return p.Base + "/image-proxy/" + EncodeTarget(raw)
}

// StreamURL wraps a media URL in the stream relay when enabled.
func (p ProxyOptions) StreamURL(raw string) string {
	if p.Base == "" || !p.ProxyStreams {
		return raw
	}
	return p.Base + "/stream-proxy/" + EncodeTarget(raw)
}

// RenderM3U writes the playlist for the merged stream list. Items appear in
// input order, one EXTINF entry each; series with a present-but-unusable
// episode listing are dropped. The group filter is applied to the final
// display title, after VOD/Series prefixing, which is also what clients see.
func RenderM3U(items []catalog.StreamItem, groups map[catalog.FlexID]string, filter groupfilter.Spec, creds Credentials, proxy ProxyOptions) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, item := range items {
		group := displayGroup(groups, item)
		if !groupfilter.Include(group, filter) {
			continue
		}
		target, ok := MediaURL(creds, item)
		if !ok {
			continue
		}
		name := displayName(item)
		fmt.Fprintf(&b, "#EXTINF:0 tvg-name=%q group-title=%q tvg-logo=%q,%s\n",
			name, group, proxy.LogoURL(item.StreamIcon), name)
		b.WriteString(proxy.StreamURL(target))
		b.WriteByte('\n')
	}
	return b.String()
}

func displayName(item catalog.StreamItem) string {
	if item.Name != "" {
		return item.Name
	}
	if item.ContentType == catalog.Series {
		return "Unknown Series"
	}
	return "Unknown"
}

// displayGroup resolves the category name and prefixes it by content type
// so the one flat group-title namespace stays unambiguous in clients.
func displayGroup(groups map[catalog.FlexID]string, item catalog.StreamItem) string {
	name := catalog.GroupName(groups, item.CategoryID)
	switch item.ContentType {
	case catalog.VOD:
		return "VOD - " + name
	case catalog.Series:
		return "Series - " + name
	default:
		return name
	}
}
