package vfs

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is vfsctl's resolved configuration: a YAML file provides the base
// layer, environment variables override it (the same two-layer precedence
// the reference corpus's cmd/auth config loader uses).
type Config struct {
	DiskPath    string `yaml:"disk_path" envconfig:"VFS_DISK_PATH" default:"disk.img"`
	BlockSize   int32  `yaml:"block_size" envconfig:"VFS_BLOCK_SIZE" default:"1024"`
	TotalBlocks int32  `yaml:"total_blocks" envconfig:"VFS_TOTAL_BLOCKS" default:"1024"`
	TotalInodes int32  `yaml:"total_inodes" envconfig:"VFS_TOTAL_INODES" default:"1024"`
}

// LoadConfig reads path as a YAML base layer (a missing file is not an
// error — defaults apply) and then lets environment variables prefixed
// VFS_ override whatever the file set.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	var file Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &file); err != nil {
				return Config{}, fmt.Errorf("parsing config file `%s`: %w", path, err)
			}
		case os.IsNotExist(err):
			// no base layer; defaults/env apply below
		default:
			return Config{}, fmt.Errorf("reading config file `%s`: %w", path, err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("applying environment overrides: %w", err)
	}
	// envconfig sets every unset variable from its default tag; file values win over those.
	unset := func(key string) bool { _, ok := os.LookupEnv(key); return !ok }
	if unset("VFS_DISK_PATH") && file.DiskPath != "" {
		cfg.DiskPath = file.DiskPath
	}
	if unset("VFS_BLOCK_SIZE") && file.BlockSize != 0 {
		cfg.BlockSize = file.BlockSize
	}
	if unset("VFS_TOTAL_BLOCKS") && file.TotalBlocks != 0 {
		cfg.TotalBlocks = file.TotalBlocks
	}
	if unset("VFS_TOTAL_INODES") && file.TotalInodes != 0 {
		cfg.TotalInodes = file.TotalInodes
	}
	return cfg, nil
}
