package runtime

import (
	"regexp"
	"sort"
	"strings"
)

// pattern detects one runtime family in a lower-cased User-Agent.
type pattern struct {
	Family    string
	Keywords  []string
	Excludes  []string
	Regex     *regexp.Regexp
	OrderHint int
}

func (p pattern) match(ua string) bool {
	for _, keyword := range p.Keywords {
		if !strings.Contains(ua, keyword) {
			return false
		}
	}
	for _, exclude := range p.Excludes {
		if strings.Contains(ua, exclude) {
			return false
		}
	}
	return true
}

// version extracts "major.minor" from the first capture groups of the regex.
// Underscore separated versions (iOS) are accepted.
func (p pattern) version(ua string) string {
	if p.Regex == nil {
		return ""
	}
	matches := p.Regex.FindStringSubmatch(ua)
	if len(matches) < 2 {
		return ""
	}
	v := strings.ReplaceAll(matches[1], "_", ".")
	if len(v) > 20 {
		v = v[:20]
	}
	return v
}

// Patterns are tried in OrderHint order. Chromium derivatives without a family
// of their own (Yandex, Vivaldi, Brave, Chromium based Edge) fall through to
// chrome and report the chrome version they embed.
var patterns = []pattern{
	{
		Family:    FamilyIEMobile,
		Keywords:  []string{"iemobile"},
		Regex:     regexp.MustCompile(`iemobile[/ ]([\d.]+)`),
		OrderHint: 10,
	},
	{
		Family:    FamilyEdgeMobile,
		Keywords:  []string{"edge/", "mobile"},
		Regex:     regexp.MustCompile(`edge/([\d.]+)`),
		OrderHint: 20,
	},
	{
		Family:    FamilyEdge,
		Keywords:  []string{"edge/"},
		Regex:     regexp.MustCompile(`edge/([\d.]+)`),
		OrderHint: 30,
	},
	{
		Family:    FamilyOperaMini,
		Keywords:  []string{"opera mini"},
		Regex:     regexp.MustCompile(`opera mini/([\d.]+)`),
		OrderHint: 40,
	},
	{
		Family:    FamilyOperaMob,
		Keywords:  []string{"opr/", "mobile"},
		Regex:     regexp.MustCompile(`opr/([\d.]+)`),
		OrderHint: 50,
	},
	{
		Family:    FamilyOpera,
		Keywords:  []string{"opr/"},
		Regex:     regexp.MustCompile(`opr/([\d.]+)`),
		OrderHint: 60,
	},
	{
		Family:    FamilyOpera,
		Keywords:  []string{"opera"},
		Regex:     regexp.MustCompile(`opera[/ ]([\d.]+)`),
		OrderHint: 70,
	},
	{
		Family:    FamilySamsung,
		Keywords:  []string{"samsungbrowser"},
		Regex:     regexp.MustCompile(`samsungbrowser/([\d.]+)`),
		OrderHint: 80,
	},
	{
		Family:    FamilyIOSChrome,
		Keywords:  []string{"crios"},
		Regex:     regexp.MustCompile(`os ([\d_]+) like mac os x`),
		OrderHint: 90,
	},
	{
		Family:    FamilyIOSSafari,
		Keywords:  []string{"like mac os x"},
		Regex:     regexp.MustCompile(`os ([\d_]+) like mac os x`),
		OrderHint: 100,
	},
	{
		Family:    FamilyBlackBerry,
		Keywords:  []string{"bb10"},
		Regex:     regexp.MustCompile(`version/([\d.]+)`),
		OrderHint: 110,
	},
	{
		Family:    FamilyBlackBerry,
		Keywords:  []string{"blackberry"},
		Regex:     regexp.MustCompile(`version/([\d.]+)`),
		OrderHint: 115,
	},
	{
		Family:    FamilyChrome,
		Keywords:  []string{"chrome/"},
		Regex:     regexp.MustCompile(`chrome/([\d.]+)`),
		OrderHint: 120,
	},
	{
		Family:    FamilyFirefoxMob,
		Keywords:  []string{"firefox/", "mobile"},
		Regex:     regexp.MustCompile(`firefox/([\d.]+)`),
		OrderHint: 130,
	},
	{
		Family:    FamilyFirefox,
		Keywords:  []string{"firefox/"},
		Regex:     regexp.MustCompile(`firefox/([\d.]+)`),
		OrderHint: 140,
	},
	{
		Family:    FamilyAndroid,
		Keywords:  []string{"android", "version/"},
		Regex:     regexp.MustCompile(`android ([\d.]+)`),
		OrderHint: 150,
	},
	{
		Family:    FamilySafari,
		Keywords:  []string{"safari"},
		Excludes:  []string{"chrome", "firefox", "android"},
		Regex:     regexp.MustCompile(`version/([\d.]+)`),
		OrderHint: 160,
	},
	{
		Family:    FamilyIE,
		Keywords:  []string{"msie"},
		Regex:     regexp.MustCompile(`msie ([\d.]+)`),
		OrderHint: 170,
	},
	{
		Family:    FamilyIE,
		Keywords:  []string{"trident/"},
		Regex:     regexp.MustCompile(`rv:([\d.]+)`),
		OrderHint: 180,
	},
}

func init() {
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].OrderHint < patterns[j].OrderHint
	})
}

// detect returns the family and raw version found in a lower-cased User-Agent.
func detect(lowerUA string) (family, version string) {
	for _, p := range patterns {
		if p.match(lowerUA) {
			return p.Family, p.version(lowerUA)
		}
	}
	return FamilyUnknown, ""
}
