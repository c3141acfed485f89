package catalog

import (
	"bytes"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// json-iterator handles Xtream's loose typing (unquoted numbers in string
// fields and vice versa) better than the standard library.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotList reports that an endpoint expected to return a JSON array
// returned something else (typically an auth-error object).
var ErrNotList = errors.New("payload is not a list")

// DecodeCategories parses a get_*_categories payload.
func DecodeCategories(body []byte) ([]Category, error) {
	if !looksLikeList(body) {
		return nil, ErrNotList
	}
	var cats []Category
	if err := jsonAPI.Unmarshal(body, &cats); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotList, err)
	}
	return cats, nil
}

// DecodeStreams parses a get_live_streams / get_vod_streams / get_series
// payload.
func DecodeStreams(body []byte) ([]StreamItem, error) {
	if !looksLikeList(body) {
		return nil, ErrNotList
	}
	var items []StreamItem
	if err := jsonAPI.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotList, err)
	}
	return items, nil
}

func looksLikeList(body []byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) > 0 && body[0] == '['
}
