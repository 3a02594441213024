package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/polyfill/pkg/runtime"
)

func TestParse_UserAgents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ua      string
		family  string
		version string
	}{
		{
			name:    "chrome desktop",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			family:  runtime.FamilyChrome,
			version: "91.0",
		},
		{
			name:    "chromium edge reports chrome",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36 Edg/91.0.864.59",
			family:  runtime.FamilyChrome,
			version: "91.0",
		},
		{
			name:    "legacy edge",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/70.0.3538.102 Safari/537.36 Edge/18.19582",
			family:  runtime.FamilyEdge,
			version: "18.19582",
		},
		{
			name:    "firefox desktop",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
			family:  runtime.FamilyFirefox,
			version: "89.0",
		},
		{
			name:    "firefox android",
			ua:      "Mozilla/5.0 (Android 11; Mobile; rv:68.0) Gecko/68.0 Firefox/88.0",
			family:  runtime.FamilyFirefoxMob,
			version: "88.0",
		},
		{
			name:    "safari macos",
			ua:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
			family:  runtime.FamilySafari,
			version: "14.1",
		},
		{
			name:    "safari ios",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 13_2_3 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/13.0.3 Mobile/15E148 Safari/604.1",
			family:  runtime.FamilyIOSSafari,
			version: "13.2",
		},
		{
			name:    "chrome ios",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 14_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) CriOS/87.0.4280.77 Mobile/15E148 Safari/604.1",
			family:  runtime.FamilyIOSChrome,
			version: "14.4",
		},
		{
			name:    "samsung internet",
			ua:      "Mozilla/5.0 (Linux; Android 9; SAMSUNG SM-G960F) AppleWebKit/537.36 (KHTML, like Gecko) SamsungBrowser/10.1 Chrome/71.0.3578.99 Mobile Safari/537.36",
			family:  runtime.FamilySamsung,
			version: "10.1",
		},
		{
			name:    "opera desktop",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36 OPR/77.0.4054.254",
			family:  runtime.FamilyOpera,
			version: "77.0",
		},
		{
			name:    "internet explorer 11",
			ua:      "Mozilla/5.0 (Windows NT 10.0; WOW64; Trident/7.0; rv:11.0) like Gecko",
			family:  runtime.FamilyIE,
			version: "11.0",
		},
		{
			name:    "internet explorer 8",
			ua:      "Mozilla/4.0 (compatible; MSIE 8.0; Windows NT 6.1; Trident/4.0)",
			family:  runtime.FamilyIE,
			version: "8.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rt, err := runtime.ParseStrict(tt.ua)
			assert.NoError(t, err)
			assert.False(t, rt.IsUnknown())
			assert.Equal(t, tt.family, rt.Family())
			assert.Equal(t, tt.version, rt.Version())
			assert.Equal(t, tt.ua, rt.Identity())
		})
	}
}

func TestParse_Shorthand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		identity string
		family   string
		version  string
	}{
		{"chrome/45", runtime.FamilyChrome, "45.0"},
		{"Chrome/45.3.1", runtime.FamilyChrome, "45.3"},
		{"ie/8", runtime.FamilyIE, "8.0"},
		{"ios_saf/9_3", runtime.FamilyIOSSafari, "9.3"},
		{" firefox/60 ", runtime.FamilyFirefox, "60.0"},
	}

	for _, tt := range tests {
		t.Run(tt.identity, func(t *testing.T) {
			t.Parallel()
			rt := runtime.Parse(tt.identity)
			assert.False(t, rt.IsUnknown())
			assert.Equal(t, tt.family, rt.Family())
			assert.Equal(t, tt.version, rt.Version())
		})
	}
}

func TestParse_Unknown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		identity string
		err      error
	}{
		{"empty", "", runtime.ErrEmptyIdentity},
		{"whitespace", "   ", runtime.ErrEmptyIdentity},
		{"garbage", "not a browser", runtime.ErrUnrecognized},
		{"unknown family shorthand", "netscape/4", runtime.ErrUnrecognized},
		{"curl", "curl/7.64.1", runtime.ErrUnrecognized},
		{"below baseline", "Mozilla/4.0 (compatible; MSIE 6.0; Windows NT 5.1)", runtime.ErrUnsupportedVersion},
		{"below baseline shorthand", "chrome/10", runtime.ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rt, err := runtime.ParseStrict(tt.identity)
			assert.ErrorIs(t, err, tt.err)
			assert.True(t, rt.IsUnknown())
			assert.True(t, runtime.Parse(tt.identity).IsUnknown())
		})
	}
}

func TestRuntime_Satisfies(t *testing.T) {
	t.Parallel()

	rt := runtime.Parse("chrome/45")

	tests := []struct {
		expr string
		want bool
	}{
		{"*", true},
		{"<50", true},
		{"<45", false},
		{">=46", false},
		{">=45", true},
		{"40 - 44", false},
		{"45 - 50", true},
		{"10 - *", true},
		{"46 - *", false},
		{"", false},
		{"not a range", false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rt.Satisfies(tt.expr))
		})
	}

	t.Run("unknown runtime satisfies nothing", func(t *testing.T) {
		t.Parallel()
		assert.False(t, runtime.Parse("garbage").Satisfies("*"))
	})
}

func TestRuntime_Normalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "chrome#91#0", runtime.Parse(
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	).Normalize())
	assert.Equal(t, "chrome#91#0", runtime.Parse("chrome/91").Normalize())
	assert.Equal(t, "other#0#0", runtime.Parse("").Normalize())
	assert.Equal(t, "ie/11.0", runtime.Parse("ie/11").String())
}

func TestFamilies(t *testing.T) {
	t.Parallel()

	families := runtime.Families()
	assert.Contains(t, families, runtime.FamilyChrome)
	assert.NotContains(t, families, runtime.FamilyUnknown)
	for _, f := range families {
		assert.True(t, runtime.IsKnownFamily(f))
	}
	assert.False(t, runtime.IsKnownFamily(runtime.FamilyUnknown))
}
