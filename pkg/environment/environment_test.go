package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/polyfill/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want environment.Environment
	}{
		{"production", environment.Production},
		{"prod", environment.Production},
		{" PRODUCTION ", environment.Production},
		{"staging", environment.Staging},
		{"stage", environment.Staging},
		{"development", environment.Development},
		{"dev", environment.Development},
		{"", environment.Development},
		{"qa", environment.Development},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, environment.Parse(tt.in))
		})
	}
}

func TestEnvironment_Predicates(t *testing.T) {
	t.Parallel()

	assert.True(t, environment.Production.IsProduction())
	assert.False(t, environment.Production.IsDevelopment())
	assert.True(t, environment.Staging.IsStaging())
	assert.False(t, environment.Staging.IsDevelopment())
	assert.True(t, environment.Development.IsDevelopment())
	assert.True(t, environment.Environment("custom").IsDevelopment())
	assert.Equal(t, "staging", environment.Staging.String())
}

func TestConfig_Environment(t *testing.T) {
	t.Parallel()

	assert.Equal(t, environment.Production, environment.Config{Env: "prod"}.Environment())
	assert.Equal(t, environment.Development, environment.Config{}.Environment())
}
