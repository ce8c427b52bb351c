package client

import (
	"context"

	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/schema"
)

// CollectionIterator is returned by a collection-route GET call: the
// transport call is eager, but per-item schema decoding is lazy
// (spec.md §3 "ResponseBox", §4.3 step 5). Its meta is available before
// any iteration.
type CollectionIterator[T any] struct {
	meta  schema.CollectionMeta
	items []any
	pos   int
}

// Meta returns the collection's pagination metadata (count, optional
// total_count, links — spec.md scenario S5).
func (it *CollectionIterator[T]) Meta() schema.CollectionMeta { return it.meta }

// Next decodes and returns the next item, advancing the cursor. The second
// return is false once the collection is exhausted.
func (it *CollectionIterator[T]) Next() (T, bool, error) {
	var zero T
	if it.pos >= len(it.items) {
		return zero, false, nil
	}
	raw := it.items[it.pos]
	it.pos++
	item, err := schema.Decode[T](raw)
	if err != nil {
		return zero, false, err
	}
	return item, true, nil
}

// CollectionGet performs a collection-route GET call (spec.md §4.3 step 5
// "Collection route with GET ⇒ CollectionIterator"). Unlike the boxed
// verbs, CollectionGet raises rather than boxes a failure — its return
// type is an iterator, which cannot represent an error branch
// (spec.md §7 "Propagation policy").
func CollectionGet[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) (*CollectionIterator[TResp], error) {
	inv, err := rp.prepareCall(ctx, httpmsg.GET, true, params, opts)
	if err != nil {
		return nil, err
	}
	if !inv.resp.IsSuccess() {
		httpErr := httpmsg.NewError(inv.req, inv.resp)
		return nil, rp.client.factory.errorParser(httpErr)
	}

	parser := rp.routes.Parser
	if parser == nil {
		parser = schema.DefaultCollectionParser{}
	}
	meta, items, err := parser.Parse(inv.resp)
	if err != nil {
		return nil, err
	}
	return &CollectionIterator[TResp]{meta: meta, items: items}, nil
}
