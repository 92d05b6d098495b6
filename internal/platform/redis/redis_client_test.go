package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expected    Config
		wantEnabled bool
	}{
		{
			name:        "success: host and port",
			env:         map[string]string{"REDIS_HOST": "cache", "REDIS_PORT": "6380", "REDIS_PASSWORD": "secret", "REDIS_DB": "2"},
			expected:    Config{Addr: "cache:6380", Password: "secret", DB: 2},
			wantEnabled: true,
		},
		{
			name:        "success: default port",
			env:         map[string]string{"REDIS_HOST": "cache", "REDIS_PORT": "", "REDIS_PASSWORD": "", "REDIS_DB": ""},
			expected:    Config{Addr: "cache:6379"},
			wantEnabled: true,
		},
		{
			name:     "success: disabled without host",
			env:      map[string]string{"REDIS_HOST": "", "REDIS_PORT": "6379", "REDIS_PASSWORD": "", "REDIS_DB": "x"},
			expected: Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := LoadConfig()
			assert.Equal(t, tt.expected, cfg)
			assert.Equal(t, tt.wantEnabled, cfg.Enabled())
		})
	}
}
