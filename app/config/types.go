package config

// FeedConfig describes one subscribed feed, loaded from a YAML file in the
// feeds directory.
type FeedConfig struct {
	Name     string       `yaml:"name"`
	URL      string       `yaml:"url"`
	Settings FeedSettings `yaml:"settings"`
}

type FeedSettings struct {
	Enabled        bool `yaml:"enabled"`
	Timeout        int  `yaml:"timeout"`         // seconds
	ExtractContent bool `yaml:"extract_content"` // backfill missing descriptions from article pages
}
