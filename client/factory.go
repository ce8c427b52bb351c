package client

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/forge/config"
	"github.com/zoobzio/forge/discovery"
	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/middleware"
	"github.com/zoobzio/forge/registry"
	"github.com/zoobzio/forge/transport"
)

// ErrorParser converts a non-2xx httpmsg.Error into a typed domain error.
// The default parser returns the raw *httpmsg.Error unchanged (spec.md §7
// "HttpError... A per-factory/per-client error_parser converts it into a
// typed domain error; the default parser returns the raw HttpError").
type ErrorParser func(*httpmsg.Error) error

// DefaultErrorParser returns e unchanged.
func DefaultErrorParser(e *httpmsg.Error) error { return e }

// Factory binds service discovery, transport, the registry, default
// timeout, and the default middleware chain (spec.md §6 "Factory").
// Registries and factories are configured once and are effectively
// immutable after first use (spec.md §3 "Lifecycle").
type Factory struct {
	sd          discovery.Discoverer
	transport   transport.Transport
	registry    *registry.Registry
	auth        middleware.Authorization
	timeout     httpmsg.Timeout
	errorParser ErrorParser
	cfg         config.Config

	chainMu sync.Mutex
	chain   middleware.Chain

	initMu       sync.Mutex
	initOnce     sync.Once
	initCount    int32
	initializers []middleware.Initializer
}

// Option configures a Factory at construction time.
type Option func(*Factory)

// WithTransport overrides the default net/http transport.
func WithTransport(t transport.Transport) Option { return func(f *Factory) { f.transport = t } }

// WithAuth sets the factory-level default Authorization.
func WithAuth(a middleware.Authorization) Option { return func(f *Factory) { f.auth = a } }

// WithRegistry overrides the default (empty) registry.
func WithRegistry(r *registry.Registry) Option { return func(f *Factory) { f.registry = r } }

// WithTimeout sets the factory-level default Timeout.
func WithTimeout(t httpmsg.Timeout) Option { return func(f *Factory) { f.timeout = t } }

// WithErrorParser overrides the default (identity) error parser.
func WithErrorParser(p ErrorParser) Option { return func(f *Factory) { f.errorParser = p } }

// WithConfig overrides the factory's defaults (timeout, breaker
// threshold/TTL, cache TTL ceiling, metrics namespace) with cfg — e.g. the
// result of config.LoadYAML or a config.Watcher.Current() snapshot. Applied
// after WithTimeout in the option list would still win, per normal
// functional-option ordering.
func WithConfig(cfg config.Config) Option {
	return func(f *Factory) {
		f.cfg = cfg
		f.timeout = httpmsg.Timeout{Total: cfg.DefaultTimeout, Connect: cfg.DefaultConnect}
	}
}

// NewFactory builds a Factory over sd, defaulting transport to
// transport.NewNetHTTP(transport.DefaultOptions()), the registry to a fresh
// empty registry.Registry, and timeout/breaker/metrics defaults to
// config.Default() (spec.md §6).
func NewFactory(sd discovery.Discoverer, opts ...Option) *Factory {
	cfg := config.Default()
	f := &Factory{
		sd:          sd,
		transport:   transport.NewNetHTTP(transport.DefaultOptions()),
		registry:    registry.New(),
		timeout:     httpmsg.Timeout{Total: cfg.DefaultTimeout, Connect: cfg.DefaultConnect},
		errorParser: DefaultErrorParser,
		cfg:         cfg,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Registry returns the factory's registry, for registration.Register calls.
func (f *Factory) Registry() *registry.Registry { return f.registry }

// Config returns the factory's current tunables, for constructing
// breaker/cache/metrics middleware with matching threshold, TTL, and
// namespace values.
func (f *Factory) Config() config.Config { return f.cfg }

// AddMiddleware prepends m to the factory's chain (spec.md §4.4). Clients
// already created from this factory are unaffected (spec.md §8
// invariant 6).
func (f *Factory) AddMiddleware(m middleware.Middleware) {
	f.chainMu.Lock()
	defer f.chainMu.Unlock()
	f.chain.Add(m)
}

// AddInitializer registers i to be invoked once by Initialize, before the
// factory's first Call (spec.md §4.4 "Initialization hook").
func (f *Factory) AddInitializer(i middleware.Initializer) {
	f.initMu.Lock()
	defer f.initMu.Unlock()
	f.initializers = append(f.initializers, i)
}

// Initialize invokes every registered Initializer exactly once, regardless
// of how many times Initialize is called; each call still increments
// InitCount (spec.md §4.4 "idempotent if called again; count increments").
func (f *Factory) Initialize() error {
	atomic.AddInt32(&f.initCount, 1)
	var err error
	f.initOnce.Do(func() {
		f.initMu.Lock()
		inits := append([]middleware.Initializer(nil), f.initializers...)
		f.initMu.Unlock()
		for _, i := range inits {
			if e := i.Initialize(); e != nil {
				err = e
				return
			}
		}
	})
	return err
}

// InitCount reports how many times Initialize has been called.
func (f *Factory) InitCount() int32 { return atomic.LoadInt32(&f.initCount) }

// Call resolves clientName's endpoint via service discovery and returns a
// Client bound to its resource map and a snapshot of the factory's
// middleware chain (spec.md §6 "Factory.call(client_name, auth?) -> Client").
func (f *Factory) Call(ctx context.Context, clientName string, opts ...ClientOption) (*Client, error) {
	identity, resources, err := f.registry.GetService(clientName)
	if err != nil {
		return nil, err
	}

	endpoint, err := f.sd.GetEndpoint(ctx, identity.Service, identity.Version)
	if err != nil {
		return nil, err
	}

	settings := clientSettings{}
	for _, opt := range opts {
		opt(&settings)
	}
	auth := f.auth
	if settings.auth != nil {
		auth = *settings.auth
	}

	f.chainMu.Lock()
	snapshot := f.chain.Snapshot()
	f.chainMu.Unlock()

	return &Client{
		factory:    f,
		clientName: clientName,
		endpoint:   endpoint,
		resources:  resources,
		chain:      snapshot,
		auth:       auth,
		timeout:    f.timeout,
	}, nil
}
