package upstream

import (
	"context"
	"fmt"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/iptvgw/xtream-gateway/internal/catalog"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Endpoint names double as FetchAll result keys.
const (
	TaskLiveCategories   = "live_categories"
	TaskLiveStreams      = "live_streams"
	TaskVODCategories    = "vod_categories"
	TaskVODStreams       = "vod_streams"
	TaskSeriesCategories = "series_categories"
	TaskSeries           = "series"
)

var taskActions = map[string]string{
	TaskLiveCategories:   "get_live_categories",
	TaskLiveStreams:      "get_live_streams",
	TaskVODCategories:    "get_vod_categories",
	TaskVODStreams:       "get_vod_streams",
	TaskSeriesCategories: "get_series_categories",
	TaskSeries:           "get_series",
}

// PlayerAPIURL builds a player_api.php request URL. Credentials are
// query-escaped; providers hand out passwords with '&' and '%' in them.
func PlayerAPIURL(base, username, password, action string) string {
	u := fmt.Sprintf("%s/player_api.php?username=%s&password=%s",
		base, url.QueryEscape(username), url.QueryEscape(password))
	if action != "" {
		u += "&action=" + action
	}
	return u
}

// GuideURL builds the provider's XMLTV endpoint URL.
func GuideURL(base, username, password string) string {
	return fmt.Sprintf("%s/xmltv.php?username=%s&password=%s",
		base, url.QueryEscape(username), url.QueryEscape(password))
}

// CatalogRequest describes one catalog build against a provider.
type CatalogRequest struct {
	BaseURL  string
	Username string
	Password string

	// IncludeVOD pulls the vod/series category lists alongside live.
	IncludeVOD bool
	// FullStreams additionally pulls the vod/series stream lists. Only the
	// playlist render needs those; category listings skip them.
	FullStreams bool

	CategoryTimeout time.Duration
	StreamTimeout   time.Duration
}

// CatalogTasks expands a request into the endpoint set to fetch. Live
// endpoints are required; everything VOD/series is optional and degrades
// to empty on failure. The live stream list gets a longer deadline than
// the category lists, and the VOD/series stream lists longer still, since
// large providers take minutes to serialize them.
func CatalogTasks(req CatalogRequest) []Task {
	liveStreamTimeout := 3 * req.CategoryTimeout
	tasks := []Task{
		{Name: TaskLiveCategories, Timeout: req.CategoryTimeout, Required: true},
		{Name: TaskLiveStreams, Timeout: liveStreamTimeout, Required: true},
	}
	if req.IncludeVOD {
		tasks = append(tasks,
			Task{Name: TaskVODCategories, Timeout: req.CategoryTimeout},
			Task{Name: TaskSeriesCategories, Timeout: req.CategoryTimeout},
		)
		if req.FullStreams {
			tasks = append(tasks,
				Task{Name: TaskVODStreams, Timeout: req.StreamTimeout},
				Task{Name: TaskSeries, Timeout: req.StreamTimeout},
			)
		}
	}
	for i := range tasks {
		tasks[i].URL = PlayerAPIURL(req.BaseURL, req.Username, req.Password, taskActions[tasks[i].Name])
	}
	return tasks
}

// Session is the outcome of a successful credential check. Username and
// Password are the values the provider echoed back, which may differ from
// what the client sent; all media URLs must be built from these.
type Session struct {
	Username   string
	Password   string
	ServerBase string
}

type authPayload struct {
	UserInfo *struct {
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"user_info"`
	ServerInfo *struct {
		URL  string         `json:"url"`
		Port catalog.FlexID `json:"port"`
	} `json:"server_info"`
}

// ValidateCredentials performs the bare player_api.php handshake and
// extracts the session the provider wants us to use. A reachable endpoint
// that answers without user_info and server_info is not an Xtream portal,
// or refused the credentials; either way it is ErrInvalidResponse.
func (f *Fetcher) ValidateCredentials(ctx context.Context, base, username, password string, timeout time.Duration) (*Session, error) {
	body, err := f.Fetch(ctx, PlayerAPIURL(base, username, password, ""), timeout)
	if err != nil {
		return nil, err
	}

	var auth authPayload
	if err := jsonAPI.Unmarshal(body, &auth); err != nil {
		return nil, fmt.Errorf("%w: auth payload is not valid JSON: %v", ErrInvalidResponse, err)
	}
	if auth.UserInfo == nil || auth.ServerInfo == nil {
		return nil, fmt.Errorf("%w: auth payload missing user_info or server_info", ErrInvalidResponse)
	}

	sess := &Session{
		Username:   auth.UserInfo.Username,
		Password:   auth.UserInfo.Password,
		ServerBase: fmt.Sprintf("http://%s:%s", auth.ServerInfo.URL, auth.ServerInfo.Port),
	}
	// Some portals omit the echoed credentials; fall back to what the
	// client sent.
	if sess.Username == "" {
		sess.Username = username
	}
	if sess.Password == "" {
		sess.Password = password
	}
	return sess, nil
}
