package playlist

import "regexp"

// Guide documents run to tens of megabytes; they are rewritten textually
// rather than parsed, since only icon attributes change.
var iconSrcRe = regexp.MustCompile(`<icon src="([^"]+)"`)

// RewriteGuideIcons redirects every channel icon in an XMLTV document
// through the image relay. proxy.Base empty or logo proxying disabled
// returns the document unchanged. Icons already pointing at the relay are
// left alone, so rewriting is idempotent.
func RewriteGuideIcons(doc []byte, proxy ProxyOptions) []byte {
	if proxy.Base == "" || !proxy.ProxyLogos {
		return doc
	}
	prefix := proxy.Base + "/image-proxy/"
	return iconSrcRe.ReplaceAllFunc(doc, func(m []byte) []byte {
		src := string(iconSrcRe.FindSubmatch(m)[1])
		if len(src) >= len(prefix) && src[:len(prefix)] == prefix {
			return m
		}
		return []byte(`<icon src="` + prefix + EncodeTarget(src) + `"`)
	})
}
