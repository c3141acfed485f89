// Package catalog holds the per-request content model: categories and stream
// items tagged with their content type, plus the merge step that unifies the
// per-type lists the orchestrator fetched.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ContentType tags every merged entity with exactly one origin.
type ContentType string

const (
	Live   ContentType = "live"
	VOD    ContentType = "vod"
	Series ContentType = "series"
)

// FlexID is an Xtream identifier. Providers ship ids as JSON numbers or
// strings interchangeably (sometimes both within one list), so it decodes
// from either and normalises to the textual form.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flex id: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// Category is one provider bucket. ContentType is stamped during Merge, not
// supplied by the provider.
type Category struct {
	ID          FlexID      `json:"category_id"`
	Name        string      `json:"category_name"`
	ContentType ContentType `json:"content_type"`
}

// Episode is a series episode; only the fields needed for playlist URL
// synthesis are kept.
type Episode struct {
	ID                 FlexID `json:"id"`
	ContainerExtension string `json:"container_extension"`
}

// Season is one key of the provider's episodes object, in document order.
type Season struct {
	Key      string
	Episodes []Episode
}

// EpisodeMap preserves the provider's own season-key order. Go maps don't,
// and the representative episode is defined as "first season as sent, first
// episode", so the object is decoded token-wise.
type EpisodeMap struct {
	Seasons []Season
}

func (m *EpisodeMap) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || d != '{' {
		return fmt.Errorf("episodes: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var eps []Episode
		if err := dec.Decode(&eps); err != nil {
			return fmt.Errorf("episodes[%s]: %w", key, err)
		}
		m.Seasons = append(m.Seasons, Season{Key: key, Episodes: eps})
	}
	_, err = dec.Token() // closing brace
	return err
}

// First returns the representative episode: the first episode of the first
// season in provider order. ok is false when the mapping is present but holds
// no usable episode. Such items are skipped from playlist output entirely.
func (m *EpisodeMap) First() (Episode, bool) {
	if m == nil || len(m.Seasons) == 0 {
		return Episode{}, false
	}
	eps := m.Seasons[0].Episodes
	if len(eps) == 0 {
		return Episode{}, false
	}
	return eps[0], true
}

// StreamItem is one channel, movie or show. Fields beyond stream_id / name /
// category_id are content-type specific and optional; the renderer supplies
// the documented defaults when they are absent.
type StreamItem struct {
	StreamID           FlexID      `json:"stream_id"`
	Name               string      `json:"name"`
	CategoryID         FlexID      `json:"category_id"`
	ContentType        ContentType `json:"content_type"`
	StreamIcon         string      `json:"stream_icon"`
	ContainerExtension string      `json:"container_extension"`
	SeriesID           FlexID      `json:"series_id"`

	// Episodes is nil when the provider sent no episodes field at all, and
	// non-nil (possibly empty) when it did. The renderer's fallback-vs-skip
	// rule depends on that distinction.
	Episodes *EpisodeMap `json:"episodes,omitempty"`
}
