package fetch

import (
	"net/url"
	"strings"
)

// Platform names a job board whose pages get dedicated selectors.
type Platform string

// Known job boards.
const (
	PlatformLinkedIn   Platform = "linkedin"
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

// Profile describes where the job description lives on one platform's pages.
type Profile struct {
	Platform Platform
	// Domains match the URL host exactly or as a parent domain.
	Domains []string
	// Content selectors are tried in order.
	Content []string
	// Noise is removed before a whole-page fallback.
	Noise []string
	// Strict profiles only trust Content matches and never fall back to the page body.
	Strict bool
}

// pageNoise is stripped from every page: application forms, EEO blurbs, share and cookie widgets.
var pageNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".application--container",
	".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	"[data-testid='eeo']",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".social-links",
	".cookie-banner",
	".cookie-consent",
	".gdpr-notice",
}

// profiles is checked in order by ProfileFor.
var profiles = []Profile{
	{
		Platform: PlatformLinkedIn,
		Domains:  []string{"linkedin.com"},
		Content:  []string{".description__text", ".show-more-less-html__markup", ".jobs-description__content"},
		Noise:    []string{".show-more-less-html__button", ".top-card-layout", ".similar-jobs"},
		Strict:   true,
	},
	{
		Platform: PlatformGreenhouse,
		Domains:  []string{"greenhouse.io"},
		Content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		Noise:    []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	{
		Platform: PlatformLever,
		Domains:  []string{"lever.co"},
		Content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		Noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		Platform: PlatformWorkday,
		Domains:  []string{"myworkdayjobs.com", "workday.com"},
		Content:  []string{"[data-automation-id='jobDescription']", ".WDXK", ".gwt-HTML", ".job-description"},
		Noise:    []string{"[data-automation-id='applyButton']", ".application-section", ".WDAF"},
	},
}

var unknownProfile = Profile{Platform: PlatformUnknown, Content: JobPostingSelectors()}

// ProfileFor returns the profile for the URL's host, or a generic profile
// for unrecognized hosts and unparseable URLs.
func ProfileFor(rawURL string) Profile {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return unknownProfile
	}

	host := strings.ToLower(parsed.Hostname())
	for _, p := range profiles {
		for _, domain := range p.Domains {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return p
			}
		}
	}
	return unknownProfile
}

// NoiseSelectors returns the shared page noise plus the platform's own.
func (p Profile) NoiseSelectors() []string {
	noise := make([]string, 0, len(pageNoise)+len(p.Noise))
	noise = append(noise, pageNoise...)
	return append(noise, p.Noise...)
}

// Extract returns the job description text of a page. A strict profile returns
// the first non-blank Content match, or "" when none match.
func (p Profile) Extract(html string) (string, error) {
	if !p.Strict {
		return ExtractMainText(html, p.Content, p.NoiseSelectors()...)
	}

	for _, selector := range p.Content {
		text, err := ExtractSelector(html, selector)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	return "", nil
}
