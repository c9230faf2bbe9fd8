package config

const (
	defaultDataDir            = "~/.local/share/shownotes"
	defaultLogDir             = "~/.local/share/shownotes/logs"
	defaultAPIBind            = "127.0.0.1:8732"
	defaultShowTitle          = "Cozy News Corner"
	defaultShowTagline        = "Your source for Open Source news"
	defaultVulnerabilityLabel = "Vulnerability"
	defaultNewsLabel          = "News"
	defaultScrapeTimeout      = 5
	defaultScrapeMaxRedirects = 5
	defaultScrapeUserAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Show: Show{
			Title:              defaultShowTitle,
			Tagline:            defaultShowTagline,
			VulnerabilityLabel: defaultVulnerabilityLabel,
			NewsLabel:          defaultNewsLabel,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Scraper: Scraper{
			TimeoutSeconds: defaultScrapeTimeout,
			MaxRedirects:   defaultScrapeMaxRedirects,
			UserAgent:      defaultScrapeUserAgent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
