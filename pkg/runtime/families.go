package runtime

// Runtime families as they appear in catalog metadata.
const (
	FamilyAndroid    = "android"
	FamilyBlackBerry = "bb"
	FamilyChrome     = "chrome"
	FamilyEdge       = "edge"
	FamilyEdgeMobile = "edge_mob"
	FamilyFirefox    = "firefox"
	FamilyFirefoxMob = "firefox_mob"
	FamilyIE         = "ie"
	FamilyIEMobile   = "ie_mob"
	FamilyIOSChrome  = "ios_chr"
	FamilyIOSSafari  = "ios_saf"
	FamilyOpera      = "opera"
	FamilyOperaMini  = "op_mini"
	FamilyOperaMob   = "op_mob"
	FamilySafari     = "safari"
	FamilySamsung    = "samsung_mob"

	FamilyUnknown = "other"
)

// baseline is the oldest version of each family that is still considered a
// recognised runtime. Anything older is reported as unknown.
var baseline = map[string]string{
	FamilyAndroid:    ">=4.3",
	FamilyBlackBerry: ">=6",
	FamilyChrome:     ">=29",
	FamilyEdge:       "*",
	FamilyEdgeMobile: "*",
	FamilyFirefox:    ">=38",
	FamilyFirefoxMob: ">=38",
	FamilyIE:         ">=7",
	FamilyIEMobile:   ">=11",
	FamilyIOSChrome:  ">=9",
	FamilyIOSSafari:  ">=9",
	FamilyOpera:      ">=33",
	FamilyOperaMini:  ">=5",
	FamilyOperaMob:   ">=10",
	FamilySafari:     ">=9",
	FamilySamsung:    ">=4",
}

// Families returns every family name Parse can produce, excluding FamilyUnknown.
func Families() []string {
	out := make([]string, 0, len(baseline))
	for f := range baseline {
		out = append(out, f)
	}
	return out
}

// IsKnownFamily reports whether family is one Parse can produce.
func IsKnownFamily(family string) bool {
	_, ok := baseline[family]
	return ok
}
