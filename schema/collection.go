package schema

import (
	"strconv"

	"github.com/zoobzio/forge/httpmsg"
)

// CollectionMeta carries the pagination metadata of a collection response:
// item count, optional total count (from a Total-Count response header, see
// spec.md scenario S5), and any Link relations.
type CollectionMeta struct {
	Count      int
	TotalCount *int
	Links      []httpmsg.Link
}

// CollectionParser turns a collection HTTP response into metadata plus an
// ordered list of raw JSON items, ready for lazy per-item schema decoding
// (spec.md §3 "Response schema").
type CollectionParser interface {
	Parse(resp *httpmsg.Response) (CollectionMeta, []any, error)
}

// DefaultCollectionParser expects the response body to be a bare JSON array
// and derives TotalCount from a Total-Count header when present.
type DefaultCollectionParser struct{}

func (DefaultCollectionParser) Parse(resp *httpmsg.Response) (CollectionMeta, []any, error) {
	var items []any
	if arr, ok := resp.JSON.([]any); ok {
		items = arr
	}
	meta := CollectionMeta{Count: len(items), Links: resp.Links}
	if raw, ok := resp.Header.Get("Total-Count"); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			meta.TotalCount = &n
		}
	}
	return meta, items, nil
}

// EnvelopeCollectionParser expects the response body to be a JSON object
// with an items array under itemsKey and an optional total-count field
// under totalKey — for services that wrap collections rather than
// returning a bare array.
type EnvelopeCollectionParser struct {
	ItemsKey string
	TotalKey string
}

func (p EnvelopeCollectionParser) Parse(resp *httpmsg.Response) (CollectionMeta, []any, error) {
	obj, _ := resp.JSON.(map[string]any)
	var items []any
	if obj != nil {
		if arr, ok := obj[p.ItemsKey].([]any); ok {
			items = arr
		}
	}
	meta := CollectionMeta{Count: len(items), Links: resp.Links}
	if p.TotalKey != "" && obj != nil {
		if f, ok := obj[p.TotalKey].(float64); ok {
			n := int(f)
			meta.TotalCount = &n
		}
	}
	if meta.TotalCount == nil {
		if raw, ok := resp.Header.Get("Total-Count"); ok {
			if n, err := strconv.Atoi(raw); err == nil {
				meta.TotalCount = &n
			}
		}
	}
	return meta, items, nil
}
