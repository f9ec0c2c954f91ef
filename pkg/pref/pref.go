// Package pref holds per-visitor preferences.
//
// A Pref is a value with an update timestamp. Values arriving from
// elsewhere (a cookie on reconnect, another tab) are merged with the local
// value according to a MergeStrategy:
//
//	theme := pref.New("theme", pref.ThemeSystem)
//	theme.Set(pref.ThemeDark)
//	theme.SetFromRemote(pref.ThemeLight, cookieTime)
package pref

import (
	"encoding/json"
	"sync"
	"time"
)

// MergeStrategy decides which value survives when local and remote differ.
type MergeStrategy int

const (
	// LWW keeps the most recently written value. Ties keep the local value.
	LWW MergeStrategy = iota
	// RemoteWins always takes the incoming value.
	RemoteWins
	// LocalWins ignores incoming values.
	LocalWins
)

// Option configures a Pref.
type Option func(*config)

type config struct {
	strategy MergeStrategy
	now      func() time.Time
}

// MergeWith sets the merge strategy. The default is LWW.
func MergeWith(s MergeStrategy) Option {
	return func(c *config) { c.strategy = s }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// Pref is a single preference value.
type Pref[T comparable] struct {
	mu        sync.RWMutex
	key       string
	value     T
	defaults  T
	updatedAt time.Time
	cfg       config
	onChange  []func(T)
}

// New creates a preference holding defaultValue. The zero update time makes
// any timestamped remote value win under LWW.
func New[T comparable](key string, defaultValue T, opts ...Option) *Pref[T] {
	cfg := config{strategy: LWW, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pref[T]{key: key, value: defaultValue, defaults: defaultValue, cfg: cfg}
}

// Key returns the preference key.
func (p *Pref[T]) Key() string { return p.key }

// Get returns the current value.
func (p *Pref[T]) Get() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// UpdatedAt returns the time of the last accepted write.
func (p *Pref[T]) UpdatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updatedAt
}

// Set writes a local value.
func (p *Pref[T]) Set(value T) {
	p.mu.Lock()
	changed := p.value != value
	p.value = value
	p.updatedAt = p.cfg.now()
	listeners := p.onChange
	p.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(value)
		}
	}
}

// Reset restores the default value.
func (p *Pref[T]) Reset() { p.Set(p.defaults) }

// SetFromRemote merges a value written elsewhere at remoteAt. It reports
// whether the remote value was taken.
func (p *Pref[T]) SetFromRemote(value T, remoteAt time.Time) bool {
	p.mu.Lock()
	var take bool
	switch p.cfg.strategy {
	case RemoteWins:
		take = true
	case LocalWins:
		take = false
	default:
		take = remoteAt.After(p.updatedAt)
	}
	if !take {
		p.mu.Unlock()
		return false
	}
	changed := p.value != value
	p.value = value
	if remoteAt.After(p.updatedAt) {
		p.updatedAt = remoteAt
	}
	listeners := p.onChange
	p.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(value)
		}
	}
	return true
}

// OnChange registers fn to run after the value changes.
func (p *Pref[T]) OnChange(fn func(T)) {
	p.mu.Lock()
	p.onChange = append(p.onChange, fn)
	p.mu.Unlock()
}

type wire[T any] struct {
	Key       string    `json:"key"`
	Value     T         `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON implements json.Marshaler.
func (p *Pref[T]) MarshalJSON() ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return json.Marshal(wire[T]{Key: p.key, Value: p.value, UpdatedAt: p.updatedAt})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pref[T]) UnmarshalJSON(data []byte) error {
	var w wire[T]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.key = w.Key
	p.value = w.Value
	p.updatedAt = w.UpdatedAt
	if p.cfg.now == nil {
		p.cfg = config{strategy: LWW, now: time.Now}
	}
	return nil
}
