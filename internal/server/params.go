package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// reqParams are the per-request provider coordinates shared by every
// catalog endpoint.
type reqParams struct {
	URL        string // provider base, trailing slash trimmed
	Username   string
	Password   string
	ProxyBase  string // relay base for rewritten URLs, trailing slash trimmed
	IncludeVOD bool
}

// requiredParams pulls url/username/password off the query string, writing
// the 400 response itself when any is missing. proxy_url falls back to the
// configured default, then to the request's own origin, so rewritten URLs
// always point somewhere reachable.
func (s *Server) requiredParams(c *gin.Context) (reqParams, bool) {
	p := reqParams{
		URL:        strings.TrimSuffix(c.Query("url"), "/"),
		Username:   c.Query("username"),
		Password:   c.Query("password"),
		IncludeVOD: truthy(c.Query("include_vod")),
	}
	if p.URL == "" || p.Username == "" || p.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing Parameters",
			"details": "Required parameters: url, username, and password",
		})
		return p, false
	}

	proxyBase := c.Query("proxy_url")
	if proxyBase == "" {
		proxyBase = s.cfg.DefaultProxyURL
	}
	if proxyBase == "" {
		proxyBase = requestOrigin(c)
	}
	p.ProxyBase = strings.TrimSuffix(proxyBase, "/")
	return p, true
}

func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
