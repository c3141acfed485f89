package catalog

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFlexID(t *testing.T) {
	tests := []struct {
		in   string
		want FlexID
	}{
		{`"42"`, "42"},
		{`42`, "42"},
		{`42.0`, "42.0"},
		{`null`, ""},
		{`""`, ""},
	}
	for _, tt := range tests {
		var id FlexID
		if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if id != tt.want {
			t.Errorf("FlexID from %s = %q, want %q", tt.in, id, tt.want)
		}
	}
}

func TestEpisodeMapOrder(t *testing.T) {
	// Keys arrive in non-sorted order; document order must win.
	raw := `{"2":[{"id":201,"container_extension":"mkv"}],"1":[{"id":101}]}`
	var m EpisodeMap
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatal(err)
	}
	if len(m.Seasons) != 2 || m.Seasons[0].Key != "2" || m.Seasons[1].Key != "1" {
		t.Fatalf("season order not preserved: %+v", m.Seasons)
	}
	ep, ok := m.First()
	if !ok || ep.ID != "201" || ep.ContainerExtension != "mkv" {
		t.Errorf("First() = %+v, %v; want episode 201/mkv", ep, ok)
	}
}

func TestEpisodeMapFirst(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"empty object", `{}`, false},
		{"empty season", `{"1":[]}`, false},
		{"skips nothing", `{"1":[{"id":7}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m EpisodeMap
			if err := json.Unmarshal([]byte(tt.raw), &m); err != nil {
				t.Fatal(err)
			}
			if _, ok := m.First(); ok != tt.ok {
				t.Errorf("First() ok = %v, want %v", ok, tt.ok)
			}
		})
	}

	var nilMap *EpisodeMap
	if _, ok := nilMap.First(); ok {
		t.Error("nil EpisodeMap must report no episode")
	}
}

func TestStreamItemEpisodesPresence(t *testing.T) {
	var withEpisodes, without StreamItem
	if err := json.Unmarshal([]byte(`{"name":"a","episodes":{}}`), &withEpisodes); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"name":"b"}`), &without); err != nil {
		t.Fatal(err)
	}
	if withEpisodes.Episodes == nil {
		t.Error("present episodes field decoded to nil")
	}
	if without.Episodes != nil {
		t.Error("absent episodes field decoded to non-nil")
	}
}

func TestDecodeRejectsNonList(t *testing.T) {
	for _, body := range []string{
		`{"user_info":{"auth":0}}`,
		`"nope"`,
		``,
		`   `,
	} {
		if _, err := DecodeCategories([]byte(body)); !errors.Is(err, ErrNotList) {
			t.Errorf("DecodeCategories(%q) err = %v, want ErrNotList", body, err)
		}
		if _, err := DecodeStreams([]byte(body)); !errors.Is(err, ErrNotList) {
			t.Errorf("DecodeStreams(%q) err = %v, want ErrNotList", body, err)
		}
	}
}

func TestDecodeCategories(t *testing.T) {
	body := `[{"category_id":5,"category_name":"News"},{"category_id":"6","category_name":"Kids"}]`
	cats, err := DecodeCategories([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 || cats[0].ID != "5" || cats[1].ID != "6" {
		t.Errorf("mixed-type ids not normalised: %+v", cats)
	}
}

func TestMergeStampsAndOrders(t *testing.T) {
	live := Source{
		Categories: []Category{{ID: "1", Name: "News"}},
		Streams:    []StreamItem{{StreamID: "10", Name: "BBC"}},
	}
	vod := Source{
		Categories: []Category{{ID: "2", Name: "Movies"}},
		Streams:    []StreamItem{{StreamID: "20", Name: "Heat"}},
	}
	series := Source{
		Streams: []StreamItem{{StreamID: "30", Name: "Lost"}},
	}

	cats, streams := Merge(live, vod, series)

	if len(cats) != 2 || cats[0].ContentType != Live || cats[1].ContentType != VOD {
		t.Fatalf("category stamp/order wrong: %+v", cats)
	}
	wantTypes := []ContentType{Live, VOD, Series}
	if len(streams) != 3 {
		t.Fatalf("want 3 streams, got %d", len(streams))
	}
	for i, want := range wantTypes {
		if streams[i].ContentType != want {
			t.Errorf("streams[%d].ContentType = %q, want %q", i, streams[i].ContentType, want)
		}
	}
}

func TestNameIndexLastWins(t *testing.T) {
	idx := NameIndex([]Category{
		{ID: "7", Name: "Live Seven", ContentType: Live},
		{ID: "7", Name: "VOD Seven", ContentType: VOD},
	})
	if got := GroupName(idx, "7"); got != "VOD Seven" {
		t.Errorf("GroupName = %q, want last-seen name", got)
	}
}

func TestGroupNameDefault(t *testing.T) {
	idx := NameIndex([]Category{{ID: "1", Name: "News"}})
	if got := GroupName(idx, "999"); got != Uncategorized {
		t.Errorf("unknown id resolved to %q, want %q", got, Uncategorized)
	}
	if got := GroupName(idx, "1"); got != "News" {
		t.Errorf("known id resolved to %q", got)
	}
}
