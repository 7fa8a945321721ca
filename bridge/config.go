package bridge

import (
	"github.com/spf13/viper"
)

// Config holds bridge configuration.
type Config struct {
	// Path to the guest wasm module.
	ModulePath string `mapstructure:"module_path"`
	// Memory limit per instance (in pages, 64KB each). 0 means wazero default.
	MemoryLimitPages uint32 `mapstructure:"memory_pages"`
	// Initial size of the host staging pool in bytes.
	PoolSize int `mapstructure:"pool_size"`
	// Upper bound on a single frame's payload.
	MaxFrameSize int `mapstructure:"max_frame_size"`
	// Maximum buffers retained by the host reuse pool.
	MaxBuffers int `mapstructure:"max_buffers"`
}

// LoadConfig reads bridge configuration from the file at configPath,
// falling back to defaults for anything unset. An empty path loads the
// defaults alone.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("module_path", "./tagreader.wasm")
	v.SetDefault("memory_pages", 256) // 16MB
	v.SetDefault("pool_size", 0)      // pool default block size
	v.SetDefault("max_frame_size", 16<<20)
	v.SetDefault("max_buffers", 16)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
