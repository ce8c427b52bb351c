// Package config loads the factory-level tunables (default timeout,
// metrics namespace, cache TTL ceiling, breaker threshold/TTL) from an
// optional YAML file (gopkg.in/yaml.v3), with github.com/fsnotify/fsnotify
// watching the YAML file for hot reload of the non-structural knobs. A .env
// file (github.com/joho/godotenv) can be loaded into the process
// environment; no environment variable is read into a Config.
// Grounded on shauryagautam-Astra's config package, since the teacher
// carries no config package of its own (DESIGN.md).
package config

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries the call-plane defaults a Factory and its middlewares are
// built from.
type Config struct {
	MetricsNamespace   string        `yaml:"metrics_namespace"`
	DefaultTimeout     time.Duration `yaml:"default_timeout"`
	DefaultConnect     time.Duration `yaml:"default_connect"`
	CacheTTLCeiling    time.Duration `yaml:"cache_ttl_ceiling"`
	BreakerThreshold   int           `yaml:"breaker_threshold"`
	BreakerTTL         time.Duration `yaml:"breaker_ttl"`
}

// Default returns the spec's built-in defaults (30s/15s timeout,
// threshold=5, breaker TTL=30s).
func Default() Config {
	return Config{
		MetricsNamespace: "blacksmith",
		DefaultTimeout:   30 * time.Second,
		DefaultConnect:   15 * time.Second,
		CacheTTLCeiling:  0, // 0 = no ceiling beyond what the response declares
		BreakerThreshold: 5,
		BreakerTTL:       30 * time.Second,
	}
}

// LoadEnv loads a .env file into the process environment (optional; a
// missing file is not an error). It only seeds os.Getenv: nothing in this
// module reads those variables into a Config.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// LoadYAML reads a YAML file into a Config, starting from Default() so
// unset fields keep their spec default.
func LoadYAML(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Watcher hot-reloads a YAML config file, publishing each successfully
// parsed Config on Updates. The structural shape of a Factory (which
// middlewares are installed) is fixed at construction; only timeouts,
// breaker threshold/TTL, and the cache TTL ceiling are meant to move at
// runtime — callers apply those atomically wherever they're held.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Updates chan Config

	mu  sync.Mutex
	cur Config
}

// NewWatcher starts watching path for writes, loading the current contents
// immediately.
func NewWatcher(path string) (*Watcher, error) {
	cfg, err := LoadYAML(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{path: path, watcher: fw, Updates: make(chan Config, 1), cur: cfg}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for event := range w.watcher.Events {
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			continue
		}
		cfg, err := LoadYAML(w.path)
		if err != nil {
			continue
		}
		w.mu.Lock()
		w.cur = cfg
		w.mu.Unlock()
		select {
		case w.Updates <- cfg:
		default:
		}
	}
}

// Current returns the most recently loaded Config.
func (w *Watcher) Current() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cur
}

// Close stops the underlying filesystem watch.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
