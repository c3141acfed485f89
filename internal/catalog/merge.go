package catalog

// Uncategorized is the group name for items whose category_id has no entry
// in the merged category list.
const Uncategorized = "Uncategorized"

// Source is one content type's contribution to the merge: whatever the
// orchestrator managed to fetch and decode. Either slice may be nil when the
// endpoint failed or wasn't requested.
type Source struct {
	Categories []Category
	Streams    []StreamItem
}

// Merge unifies the three per-type sources into one category sequence and one
// stream sequence, stamping every element's ContentType. Order is fixed:
// live, then vod, then series, regardless of fetch completion order. Each
// input list is visited exactly once (lists run to tens of thousands of
// entries on big providers).
func Merge(live, vod, series Source) ([]Category, []StreamItem) {
	total := len(live.Categories) + len(vod.Categories) + len(series.Categories)
	categories := make([]Category, 0, total)
	categories = stampCategories(categories, live.Categories, Live)
	categories = stampCategories(categories, vod.Categories, VOD)
	categories = stampCategories(categories, series.Categories, Series)

	total = len(live.Streams) + len(vod.Streams) + len(series.Streams)
	streams := make([]StreamItem, 0, total)
	streams = stampStreams(streams, live.Streams, Live)
	streams = stampStreams(streams, vod.Streams, VOD)
	streams = stampStreams(streams, series.Streams, Series)

	return categories, streams
}

func stampCategories(dst, src []Category, ct ContentType) []Category {
	for _, c := range src {
		c.ContentType = ct
		dst = append(dst, c)
	}
	return dst
}

func stampStreams(dst, src []StreamItem, ct ContentType) []StreamItem {
	for _, s := range src {
		s.ContentType = ct
		dst = append(dst, s)
	}
	return dst
}

// NameIndex builds the category_id to category_name lookup. Ids colliding
// across content types keep the last-seen name; the lookup is not scoped by
// content type.
func NameIndex(categories []Category) map[FlexID]string {
	idx := make(map[FlexID]string, len(categories))
	for _, c := range categories {
		idx[c.ID] = c.Name
	}
	return idx
}

// GroupName resolves a category id against idx, defaulting to Uncategorized.
func GroupName(idx map[FlexID]string, id FlexID) string {
	if name, ok := idx[id]; ok && name != "" {
		return name
	}
	return Uncategorized
}
