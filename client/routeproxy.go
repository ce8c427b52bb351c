package client

import (
	"context"
	"reflect"

	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/middleware"
	"github.com/zoobzio/forge/registry"
	"github.com/zoobzio/forge/schema"
)

// RouteProxy is the per-resource handle that dispatches verb calls and
// builds HTTP requests (spec.md §4.3, GLOSSARY "RouteProxy"). Go has no
// generic methods, so the typed verb dispatchers (Get, Post, ...) are
// package-level generic functions taking a *RouteProxy, grounded on the
// teacher's own heavy use of generics for typed facades
// (cache.Contract[T], catalog.Container[T]).
type RouteProxy struct {
	client   *Client
	resource string
	routes   registry.Routes
}

// DefaultSerializers is the process-wide body serializer set every
// RouteProxy serializes requests through; Register on it to add or shadow
// a content type globally (spec.md §4.1 "Pluggable serializers").
var DefaultSerializers = schema.NewSerializers()

// invocation carries everything prepareCall resolves before the chain runs,
// shared by the boxed verb dispatchers and the collection iterator.
type invocation struct {
	path     string
	contract registry.Contract
	resp     *httpmsg.Response
	req      *httpmsg.Request
}

// resolveDictParams builds the declared request schema out of dict-shaped
// (map[string]any) call params (spec.md §4.3 step 1). A union contract
// resolves the branch by discriminator field via schema.ResolveUnion; a
// plain contract decodes the dict directly into a fresh RequestType
// instance via schema.DecodeInto. A contract with neither returns the raw
// map unchanged; schema.Serialize then rejects it, since it accepts only
// struct params.
func resolveDictParams(raw map[string]any, contract registry.Contract) (any, error) {
	if len(contract.RequestUnion) > 0 {
		branches := make([]any, len(contract.RequestUnion))
		for i, t := range contract.RequestUnion {
			branches[i] = reflect.New(t).Interface()
		}
		return schema.ResolveUnion(raw, branches)
	}
	if contract.RequestType != nil {
		t := contract.RequestType
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		target := reflect.New(t).Interface()
		if err := schema.DecodeInto(raw, target); err != nil {
			return nil, err
		}
		return target, nil
	}
	return raw, nil
}

func (rp *RouteProxy) prepareCall(ctx context.Context, method httpmsg.Method, collection bool, params any, opts []CallOption) (invocation, error) {
	path := rp.routes.Path
	contractMap := rp.routes.ContractByMethod
	if collection {
		path = rp.routes.CollectionPath
		contractMap = rp.routes.CollectionContract
	}
	if path == "" {
		return invocation{}, &UnregisteredRouteError{Verb: string(method), Resource: rp.resource, Client: rp.client.clientName}
	}
	contract, ok := contractMap[method]
	if !ok {
		return invocation{}, &NoContractError{Verb: string(method), Resource: rp.resource}
	}

	if raw, isDict := params.(map[string]any); isDict {
		resolved, err := resolveDictParams(raw, contract)
		if err != nil {
			return invocation{}, err
		}
		params = resolved
	} else if contract.RequestType != nil {
		got := reflect.TypeOf(params)
		want := contract.RequestType
		gotElem, wantElem := got, want
		for gotElem != nil && gotElem.Kind() == reflect.Ptr {
			gotElem = gotElem.Elem()
		}
		for wantElem.Kind() == reflect.Ptr {
			wantElem = wantElem.Elem()
		}
		if gotElem != wantElem {
			return invocation{}, &schema.WrongRequestTypeError{Want: want, Got: got}
		}
	}

	settings := callSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	urlPattern := rp.client.endpoint + path
	httpReq, err := schema.Serialize(params, method, urlPattern, DefaultSerializers, "")
	if err != nil {
		return invocation{}, err
	}

	auth := rp.client.auth
	if settings.auth != nil {
		auth = *settings.auth
	}
	if !auth.IsZero() {
		httpReq.Header["Authorization"] = auth.Header()
	}

	timeout := rp.client.timeout
	if settings.timeout != nil {
		timeout = *settings.timeout
	}

	info := middleware.CallInfo{Method: method, ClientName: rp.client.clientName, Path: path, Resource: rp.resource}

	rp.client.chainMu.Lock()
	chain := rp.client.chain
	rp.client.chainMu.Unlock()

	handler := chain.Build(func(ctx context.Context, req *httpmsg.Request, _ middleware.CallInfo) (*httpmsg.Response, error) {
		return rp.client.factory.transport.Do(ctx, req, timeout)
	})

	resp, callErr := handler(ctx, httpReq, info)
	return invocation{path: path, contract: contract, resp: resp, req: httpReq}, callErr
}

// box turns an invocation outcome into a typed ResponseBox (spec.md §4.3
// step 5 "Item route ⇒ ResponseBox").
func box[T any](rp *RouteProxy, inv invocation, callErr error) *ResponseBox[T] {
	if callErr != nil {
		return Err[T](callErr, inv.resp)
	}
	if !inv.resp.IsSuccess() {
		httpErr := httpmsg.NewError(inv.req, inv.resp)
		domainErr := rp.client.factory.errorParser(httpErr)
		return Err[T](domainErr, inv.resp)
	}
	if inv.contract.ResponseType == nil {
		var zero T
		return Ok(zero, inv.resp)
	}
	parsed, err := schema.Decode[T](inv.resp.JSON)
	if err != nil {
		return Err[T](err, inv.resp)
	}
	return Ok(parsed, inv.resp)
}

// dispatch is the shared implementation behind every item-route verb
// function below.
func dispatch[TReq any, TResp any](ctx context.Context, rp *RouteProxy, method httpmsg.Method, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	inv, err := rp.prepareCall(ctx, method, false, params, opts)
	return box[TResp](rp, inv, err)
}

// dispatchCollection is the shared implementation behind every
// collection-route verb function other than CollectionGet, which returns a
// CollectionIterator instead (spec.md §4.3 step 5).
func dispatchCollection[TReq any, TResp any](ctx context.Context, rp *RouteProxy, method httpmsg.Method, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	inv, err := rp.prepareCall(ctx, method, true, params, opts)
	return box[TResp](rp, inv, err)
}

// Head performs an item-route HEAD call.
func Head[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatch[TReq, TResp](ctx, rp, httpmsg.HEAD, params, opts...)
}

// Get performs an item-route GET call.
func Get[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatch[TReq, TResp](ctx, rp, httpmsg.GET, params, opts...)
}

// Post performs an item-route POST call.
func Post[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatch[TReq, TResp](ctx, rp, httpmsg.POST, params, opts...)
}

// Put performs an item-route PUT call.
func Put[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatch[TReq, TResp](ctx, rp, httpmsg.PUT, params, opts...)
}

// Patch performs an item-route PATCH call.
func Patch[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatch[TReq, TResp](ctx, rp, httpmsg.PATCH, params, opts...)
}

// Delete performs an item-route DELETE call.
func Delete[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatch[TReq, TResp](ctx, rp, httpmsg.DELETE, params, opts...)
}

// Options performs an item-route OPTIONS call.
func Options[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatch[TReq, TResp](ctx, rp, httpmsg.OPTIONS, params, opts...)
}

// CollectionHead performs a collection-route HEAD call.
func CollectionHead[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatchCollection[TReq, TResp](ctx, rp, httpmsg.HEAD, params, opts...)
}

// CollectionPost performs a collection-route POST call.
func CollectionPost[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatchCollection[TReq, TResp](ctx, rp, httpmsg.POST, params, opts...)
}

// CollectionPut performs a collection-route PUT call.
func CollectionPut[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatchCollection[TReq, TResp](ctx, rp, httpmsg.PUT, params, opts...)
}

// CollectionPatch performs a collection-route PATCH call.
func CollectionPatch[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatchCollection[TReq, TResp](ctx, rp, httpmsg.PATCH, params, opts...)
}

// CollectionDelete performs a collection-route DELETE call.
func CollectionDelete[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatchCollection[TReq, TResp](ctx, rp, httpmsg.DELETE, params, opts...)
}

// CollectionOptions performs a collection-route OPTIONS call.
func CollectionOptions[TReq any, TResp any](ctx context.Context, rp *RouteProxy, params TReq, opts ...CallOption) *ResponseBox[TResp] {
	return dispatchCollection[TReq, TResp](ctx, rp, httpmsg.OPTIONS, params, opts...)
}
