package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProvider_SwapReplacesConfig(t *testing.T) {
	old := &Config{JWT: JWTConfig{Secret: "old-secret"}}
	p := NewProvider(old)

	assert.Equal(t, "old-secret", p.Get().JWT.Secret)

	p.Swap(&Config{JWT: JWTConfig{Secret: "new-secret"}})
	assert.Equal(t, "new-secret", p.Get().JWT.Secret)
}

func TestProvider_ConcurrentReadersDuringSwap(t *testing.T) {
	p := NewProvider(&Config{JWT: JWTConfig{Secret: "a"}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				secret := p.Get().JWT.Secret
				// Readers always see a complete config, never a torn one.
				assert.Contains(t, []string{"a", "b"}, secret)
			}
		}()
	}

	for j := 0; j < 1000; j++ {
		if j%2 == 0 {
			p.Swap(&Config{JWT: JWTConfig{Secret: "b"}})
		} else {
			p.Swap(&Config{JWT: JWTConfig{Secret: "a"}})
		}
	}
	wg.Wait()
}
