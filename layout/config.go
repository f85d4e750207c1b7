package layout

import (
	"fmt"
	"strings"

	"github.com/cpcf/weave/config"
	"github.com/cpcf/weave/document"
)

const (
	// DefaultTemplateDirectory is the logical directory templates loaded
	// from the filesystem are stored under and looked up from.
	DefaultTemplateDirectory = "templates"

	// LayoutName is the index entry applied to every eligible document.
	LayoutName = "layout"

	// TemplateKey is the metadata key naming a document's template.
	TemplateKey = "template"

	// ContentKey is the render context key holding the document text.
	ContentKey = "content"
)

// DefaultExtensions are the output extensions treated as HTML.
var DefaultExtensions = []string{".html", ".htm"}

type Config struct {
	// TemplateDirectory is the on-disk directory when LoadFromFilesystem is
	// set, otherwise the logical directory of existing input documents.
	TemplateDirectory  string   `yaml:"template_directory"`
	LoadFromFilesystem bool     `yaml:"load_from_filesystem"`
	Extensions         []string `yaml:"extensions"`
	Workers            int      `yaml:"workers"`
}

// DefaultConfig loads templates from dir on disk.
func DefaultConfig(dir string) Config {
	cfg := Config{
		TemplateDirectory:  dir,
		LoadFromFilesystem: true,
	}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.TemplateDirectory) == "" {
		return fmt.Errorf("template_directory is required")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	return nil
}

// LogicalDirectory is the directory the index is built from. Filesystem
// templates always live under DefaultTemplateDirectory regardless of their
// on-disk location, so ingestion and lookup cannot disagree.
func (c Config) LogicalDirectory() string {
	if c.LoadFromFilesystem {
		return DefaultTemplateDirectory
	}
	return document.CleanPath(c.TemplateDirectory)
}

// LoadConfig reads a YAML stage configuration.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if err := config.LoadYAML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
