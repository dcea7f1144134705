package config

import "sync/atomic"

// Provider hands out the live configuration. Reload swaps the whole pointer,
// so request handlers reading it concurrently never observe a partially
// written Config.
type Provider struct {
	current atomic.Pointer[Config]
}

func NewProvider(cfg *Config) *Provider {
	p := &Provider{}
	p.current.Store(cfg)
	return p
}

// Get returns the configuration visible right now.
func (p *Provider) Get() *Config {
	return p.current.Load()
}

// Swap makes cfg the configuration returned by subsequent Get calls.
func (p *Provider) Swap(cfg *Config) {
	p.current.Store(cfg)
}
