package workspace

import (
	"os"
	"path/filepath"
)

// DefaultDirName is the directory created under the OS temp dir when no base
// path is configured.
const DefaultDirName = "chunkscribe"

// Config configures the workspace root.
type Config struct {
	// BasePath holds one subdirectory per active session.
	BasePath string `yaml:"base_path" mapstructure:"base_path"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BasePath == "" {
		c.BasePath = filepath.Join(os.TempDir(), DefaultDirName)
	}
}
