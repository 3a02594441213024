package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/polyfill/pkg/fingerprint"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		fp1 := fingerprint.Generate("features=default", "runtime=chrome#45#0")
		fp2 := fingerprint.Generate("features=default", "runtime=chrome#45#0")

		assert.Equal(t, fp1, fp2)
		assert.Len(t, fp1, fingerprint.Size)
		assert.Regexp(t, "^[a-f0-9]{32}$", fp1)
	})

	t.Run("order matters", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t,
			fingerprint.Generate("a", "b"),
			fingerprint.Generate("b", "a"),
		)
	})

	t.Run("part boundaries matter", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t,
			fingerprint.Generate("ab", "c"),
			fingerprint.Generate("a", "bc"),
		)
		assert.NotEqual(t,
			fingerprint.Generate("abc"),
			fingerprint.Generate("abc", ""),
		)
	})

	t.Run("no parts", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, fingerprint.Generate(), fingerprint.Size)
	})

	t.Run("distinct runtimes", func(t *testing.T) {
		t.Parallel()
		seen := make(map[string]string)
		for _, rt := range []string{"chrome#45#0", "chrome#46#0", "ie#8#0", "other#0#0"} {
			fp := fingerprint.Generate("features=default", rt)
			_, dup := seen[fp]
			assert.False(t, dup, "collision for %s", rt)
			seen[fp] = rt
		}
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	fp := fingerprint.Generate("x", "y")
	assert.True(t, fingerprint.Validate(fp, "x", "y"))
	assert.False(t, fingerprint.Validate(fp, "x", "z"))
	assert.False(t, fingerprint.Validate("", "x", "y"))
}

func BenchmarkGenerate(b *testing.B) {
	for b.Loop() {
		fingerprint.Generate("features=default,es6", "excludes=", "runtime=chrome#120#0", "unknown=polyfill", "minify=true")
	}
}
