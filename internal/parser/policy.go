package parser

// Policy holds the parsing policy data: which sections to skip, which
// image hosts are badges, and which link words mark a demo. These are
// policy, not algorithm, so they load from configuration with the
// compiled defaults below as fallback.
type Policy struct {
	// SkipSections are lowercase substrings matched against section
	// headings. Matching sections contribute no blocks.
	SkipSections []string `toml:"skip_sections"`

	// BadgeHosts are host substrings of known badge/shield services.
	// Images from these hosts are never hero or grid candidates.
	BadgeHosts []string `toml:"badge_hosts"`

	// DemoKeywords are substrings of a link's anchor text or URL that mark
	// it as a demo link worth a call-to-action button.
	DemoKeywords []string `toml:"demo_keywords"`
}

// DefaultPolicy returns the compiled-in parsing policy.
func DefaultPolicy() Policy {
	return Policy{
		SkipSections: []string{
			"installation",
			"install",
			"setup",
			"configuration",
			"getting started",
			"prerequisites",
			"license",
		},
		BadgeHosts: []string{
			"img.shields.io",
			"shields.io",
			"badge.fury.io",
			"badgen.net",
			"travis-ci.org",
			"travis-ci.com",
			"circleci.com",
			"ci.appveyor.com",
			"codecov.io",
			"coveralls.io",
			"goreportcard.com",
			"pkg.go.dev/badge",
			"godoc.org",
			"snyk.io",
			"opencollective.com",
			"david-dm.org",
		},
		DemoKeywords: []string{
			"demo",
			"live",
			"website",
			"try",
		},
	}
}
