package lib

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds the tool-level configuration: where the external
// binaries live and where the environment cache is kept. Values merge
// from defaults, an optional config file, and VIDEOCUT_* env vars.
type Settings struct {
	FFmpegPath  string `mapstructure:"ffmpeg_path"`
	FFprobePath string `mapstructure:"ffprobe_path"`
	CacheFile   string `mapstructure:"cache_file"`
	LogLevel    string `mapstructure:"log_level"`
}

// LoadSettings reads configuration from configFile, or from the default
// location ($XDG_CONFIG_HOME/video-cut/config.yaml) when empty. A missing
// config file is fine; defaults and env vars still apply.
func LoadSettings(configFile string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("ffmpeg_path", "ffmpeg")
	v.SetDefault("ffprobe_path", "")
	v.SetDefault("cache_file", defaultCacheFile())
	v.SetDefault("log_level", "info")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "video-cut"))
		}
	}

	v.SetEnvPrefix("VIDEOCUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Only an explicitly requested file is required to exist.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && configFile != "" {
			return nil, err
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func defaultCacheFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "env_cache.json"
	}
	return filepath.Join(dir, "video-cut", "env_cache.json")
}
