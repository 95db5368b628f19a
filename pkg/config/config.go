// Package config loads the yaml configuration shared by all commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"encyc-sync/pkg/classify"
	"encyc-sync/pkg/docstore"
	"encyc-sync/pkg/logging"
	"encyc-sync/pkg/psms"
	"encyc-sync/pkg/reports"
	"encyc-sync/pkg/wiki"
)

// DefaultPaths are searched in order when no config file is given.
var DefaultPaths = []string{
	"/etc/encyc-sync.yml",
	"~/.encyc-sync.yml",
	"encyc-sync.yml",
}

// Publish holds the settings of the publishing pipeline itself.
type Publish struct {
	// Workers is the number of pages processed concurrently.
	Workers int `yaml:"workers"`

	// HiddenTags lists "attr=value" selectors of tags stripped from
	// page bodies, e.g. "id=rgdatabox-CoreDisplay".
	HiddenTags []string `yaml:"hidden_tags"`
	// HiddenTagComments leaves an HTML comment where a tag was stripped.
	HiddenTagComments bool `yaml:"hidden_tag_comments"`

	// HiddenCategories are stripped from article category lists.
	HiddenCategories []string `yaml:"hidden_categories"`
	// NonArticlePages are published pages that never become articles.
	// Defaults to the standard site-chrome pages when empty.
	NonArticlePages []string `yaml:"non_article_pages"`

	// Databoxes maps hidden databox div ids to the field prefix used
	// when flattening their data, e.g. databox-Camps: camps.
	Databoxes map[string]string `yaml:"databoxes"`

	// RGTitle settings for Resource Guide link marking.
	RGArticleBase string `yaml:"rg_article_base"`

	// ShowUnpublished publishes pages that are not in Category:Published.
	// Only for staging systems.
	ShowUnpublished bool `yaml:"show_unpublished"`
}

// Config is the root of the yaml config file.
type Config struct {
	Logging  logging.Config  `yaml:"logging"`
	Wiki     wiki.Config     `yaml:"wiki"`
	PSMS     psms.Config     `yaml:"psms"`
	Docstore docstore.Config `yaml:"docstore"`
	Reports  reports.Config  `yaml:"reports"`
	Publish  Publish         `yaml:"publish"`
}

// Load reads and validates the config file. When path is empty the
// default locations are tried in order.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, candidate := range DefaultPaths {
			if expanded, err := expandHome(candidate); err == nil {
				if _, err := os.Stat(expanded); err == nil {
					path = expanded
					break
				}
			}
		}
	}
	if path == "" {
		return nil, fmt.Errorf("no config file found (searched %v)", DefaultPaths)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Publish.Workers <= 0 {
		c.Publish.Workers = 4
	}
	if c.Publish.NonArticlePages == nil {
		c.Publish.NonArticlePages = classify.DefaultNonArticlePages
	}
	if c.Wiki.Timeout <= 0 {
		c.Wiki.Timeout = 30 * time.Second
	}
	if c.PSMS.Timeout <= 0 {
		c.PSMS.Timeout = 30 * time.Second
	}
	if c.Docstore.Timeout <= 0 {
		c.Docstore.Timeout = 30 * time.Second
	}
}

// Validate checks that the settings every run needs are present.
func (c *Config) Validate() error {
	if c.Wiki.APIURL == "" {
		return fmt.Errorf("wiki.api_url is required")
	}
	if c.PSMS.APIURL == "" {
		return fmt.Errorf("psms.api_url is required")
	}
	if c.Docstore.URI == "" {
		return fmt.Errorf("docstore.uri is required")
	}
	if c.Docstore.Database == "" {
		return fmt.Errorf("docstore.database is required")
	}
	for _, selector := range c.Publish.HiddenTags {
		if !validSelector(selector) {
			return fmt.Errorf("publish.hidden_tags: %q is not attr=value", selector)
		}
	}
	return nil
}

func validSelector(s string) bool {
	for i := 1; i < len(s)-1; i++ {
		if s[i] == '=' {
			return true
		}
	}
	return false
}

// DataboxIDs returns the configured databox div ids.
func (c *Config) DataboxIDs() []string {
	ids := make([]string, 0, len(c.Publish.Databoxes))
	for id := range c.Publish.Databoxes {
		ids = append(ids, id)
	}
	return ids
}

func expandHome(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
