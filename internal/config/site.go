package config

// SiteConfig holds site-specific configuration for a single origin.
// This allows customizing crawl behavior per site.
type SiteConfig struct {
	// Depth overrides the global crawl depth for this origin.
	// If zero, the global MaxDepth is used.
	Depth int `yaml:"depth,omitempty"`

	// TransitionsPerPage overrides the global trigger-probe cap for
	// this origin. If zero, the global value is used.
	TransitionsPerPage int `yaml:"transitionsPerPage,omitempty"`

	// DisableTransitions skips UI-state probing entirely for this
	// origin. Useful for sites whose menus navigate on click.
	DisableTransitions bool `yaml:"disableTransitions,omitempty"`

	// BlockResources overrides the global resource-blocking setting.
	// Some sites render labels only after images load.
	BlockResources *bool `yaml:"blockResources,omitempty"`

	// IgnorePatterns are URL path substrings to skip during crawling.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`
}

// File represents the structure of the .uiatlas configuration file.
type File struct {
	// Sites maps origins to their site-specific configurations.
	// Keys are host names (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Depth != 0 {
			result.Depth = siteConfig.Depth
		}
		if siteConfig.TransitionsPerPage != 0 {
			result.TransitionsPerPage = siteConfig.TransitionsPerPage
		}
		if siteConfig.DisableTransitions {
			result.DisableTransitions = true
		}
		if siteConfig.BlockResources != nil {
			result.BlockResources = siteConfig.BlockResources
		}
		if len(siteConfig.IgnorePatterns) > 0 {
			result.IgnorePatterns = siteConfig.IgnorePatterns
		}
	}

	return result
}
