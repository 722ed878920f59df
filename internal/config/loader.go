package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable problemlog reads.
const EnvPrefix = "PROBLEMLOG_"

// flagKeys maps flag names to config keys. Flags not listed are command options.
var flagKeys = map[string]string{
	"db":           "db",
	"storage-key":  "storage_key",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"addr":         "web.addr",
	"notify-after": "web.notify_after",
	"repos-dir":    "import.repos_dir",
}

// envKeys maps variable names (without EnvPrefix) to config keys.
var envKeys = map[string]string{
	"DB":               "db",
	"STORAGE_KEY":      "storage_key",
	"LOG_LEVEL":        "log.level",
	"LOG_FORMAT":       "log.format",
	"WEB_ADDR":         "web.addr",
	"WEB_NOTIFY_AFTER": "web.notify_after",
	"IMPORT_REPOS_DIR": "import.repos_dir",
}

// RegisterFlags adds the shared configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a YAML config file (or "+EnvPrefix+"CONFIG)")
	fs.String("db", DefaultDB, "Path to the SQLite database file")
	fs.String("storage-key", DefaultStorageKey, "Storage key the problem list is kept under")
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.String("log-format", DefaultLogFormat, "Log format: text or json")
	fs.String("addr", DefaultAddr, "Address the web UI listens on")
	fs.Duration("notify-after", DefaultNotifyAfter, "How long notifications stay on screen")
	fs.String("repos-dir", DefaultReposDir, "Directory git sources are cloned into")
}

// Load builds the configuration. Priority: set flags > ENV > YAML > flag defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path, _ := fs.GetString("config")
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return envKeys[strings.TrimPrefix(s, EnvPrefix)]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	// Unchanged flags only fill keys nothing else has set.
	flagProvider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	})
	if err := k.Load(flagProvider, nil); err != nil {
		return nil, fmt.Errorf("config: read flags: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}
