package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iptvgw/xtream-gateway/internal/catalog"
	"github.com/iptvgw/xtream-gateway/internal/groupfilter"
	"github.com/iptvgw/xtream-gateway/internal/playlist"
	"github.com/iptvgw/xtream-gateway/internal/upstream"
)

// ─── Catalog endpoints ───────────────────────────────────────────────────

func (s *Server) handleCategories(c *gin.Context) {
	p, ok := s.requiredParams(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := s.fetcher.ValidateCredentials(ctx, p.URL, p.Username, p.Password, s.cfg.AuthTimeout); err != nil {
		s.apiError(c, err)
		return
	}

	results := s.fetcher.FetchAll(ctx, s.catalogTasks(p, false))
	categories, _, err := s.buildCatalog(results)
	if err != nil {
		s.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) handleM3U(c *gin.Context) {
	p, ok := s.requiredParams(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	sess, err := s.fetcher.ValidateCredentials(ctx, p.URL, p.Username, p.Password, s.cfg.AuthTimeout)
	if err != nil {
		s.apiError(c, err)
		return
	}

	results := s.fetcher.FetchAll(ctx, s.catalogTasks(p, true))
	merged, streams, err := s.buildCatalog(results)
	if err != nil {
		s.apiError(c, err)
		return
	}

	filter := groupfilter.Spec{
		Wanted:   groupfilter.ParseList(c.Query("wanted_groups")),
		Unwanted: groupfilter.ParseList(c.Query("unwanted_groups")),
	}

	proxyStreams := !queryFlag(c, "nostreamproxy")
	proxyLogos := proxyStreams
	if _, explicit := c.GetQuery("nologoproxy"); explicit {
		proxyLogos = !queryFlag(c, "nologoproxy")
	}
	proxy := playlist.ProxyOptions{
		Base:         p.ProxyBase,
		ProxyLogos:   proxyLogos,
		ProxyStreams: proxyStreams,
	}
	creds := playlist.Credentials{
		ServerBase: sess.ServerBase,
		Username:   sess.Username,
		Password:   sess.Password,
	}

	body := playlist.RenderM3U(streams, catalog.NameIndex(merged), filter, creds, proxy)

	filename := "LiveStream.m3u"
	if p.IncludeVOD {
		filename = "FullPlaylist.m3u"
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "audio/x-scpls", []byte(body))
}

func (s *Server) handleXMLTV(c *gin.Context) {
	p, ok := s.requiredParams(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := s.fetcher.ValidateCredentials(ctx, p.URL, p.Username, p.Password, s.cfg.AuthTimeout); err != nil {
		s.apiError(c, err)
		return
	}

	guide, err := s.fetcher.Fetch(ctx, upstream.GuideURL(p.URL, p.Username, p.Password), s.cfg.GuideTimeout)
	if err != nil {
		s.apiError(c, err)
		return
	}

	guide = playlist.RewriteGuideIcons(guide, playlist.ProxyOptions{Base: p.ProxyBase, ProxyLogos: true})
	c.Header("Content-Disposition", "attachment; filename=guide.xml")
	c.Data(http.StatusOK, "application/xml", guide)
}

func (s *Server) catalogTasks(p reqParams, fullStreams bool) []upstream.Task {
	return upstream.CatalogTasks(upstream.CatalogRequest{
		BaseURL:         p.URL,
		Username:        p.Username,
		Password:        p.Password,
		IncludeVOD:      p.IncludeVOD,
		FullStreams:     fullStreams,
		CategoryTimeout: s.cfg.CategoryTimeout,
		StreamTimeout:   s.cfg.StreamTimeout,
	})
}

// buildCatalog decodes the fan-out results and merges them. The live pair
// is load-bearing: a failed fetch or non-list body there fails the whole
// request. Every VOD/series slot degrades to empty instead.
func (s *Server) buildCatalog(results map[string]upstream.TaskResult) ([]catalog.Category, []catalog.StreamItem, error) {
	liveCats, err := s.requiredCategories(results, upstream.TaskLiveCategories)
	if err != nil {
		return nil, nil, err
	}
	liveStreams, err := s.requiredStreams(results, upstream.TaskLiveStreams)
	if err != nil {
		return nil, nil, err
	}

	live := catalog.Source{Categories: liveCats, Streams: liveStreams}
	vod := catalog.Source{
		Categories: s.optionalCategories(results, upstream.TaskVODCategories),
		Streams:    s.optionalStreams(results, upstream.TaskVODStreams),
	}
	series := catalog.Source{
		Categories: s.optionalCategories(results, upstream.TaskSeriesCategories),
		Streams:    s.optionalStreams(results, upstream.TaskSeries),
	}

	categories, streams := catalog.Merge(live, vod, series)
	return categories, streams, nil
}

func (s *Server) requiredCategories(results map[string]upstream.TaskResult, name string) ([]catalog.Category, error) {
	r := results[name]
	if r.Err != nil {
		return nil, r.Err
	}
	list, err := catalog.DecodeCategories(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return list, nil
}

func (s *Server) requiredStreams(results map[string]upstream.TaskResult, name string) ([]catalog.StreamItem, error) {
	r := results[name]
	if r.Err != nil {
		return nil, r.Err
	}
	list, err := catalog.DecodeStreams(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return list, nil
}

func (s *Server) optionalCategories(results map[string]upstream.TaskResult, name string) []catalog.Category {
	r, ok := results[name]
	if !ok || r.Err != nil {
		return nil
	}
	list, err := catalog.DecodeCategories(r.Body)
	if err != nil {
		s.log.WithField("task", name).WithError(err).Warn("optional endpoint unusable, continuing without it")
		return nil
	}
	return list
}

func (s *Server) optionalStreams(results map[string]upstream.TaskResult, name string) []catalog.StreamItem {
	r, ok := results[name]
	if !ok || r.Err != nil {
		return nil
	}
	list, err := catalog.DecodeStreams(r.Body)
	if err != nil {
		s.log.WithField("task", name).WithError(err).Warn("optional endpoint unusable, continuing without it")
		return nil
	}
	return list
}

// queryFlag treats a bare flag ("?nostreamproxy") and truthy values as set.
func queryFlag(c *gin.Context, name string) bool {
	v, ok := c.GetQuery(name)
	if !ok {
		return false
	}
	return v == "" || truthy(v)
}
