package config

import (
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "WCSIM"

// Settings are process-level options, as opposed to a simulation Config.
type Settings struct {
	DataDir  string
	LogLevel string
	Workers  int
}

// LoadSettings resolves settings from defaults, WCSIM_* environment
// variables and, when flags is non-nil, any flags named data, log-level or
// workers. A flag set on the command line wins over the environment.
func LoadSettings(flags *pflag.FlagSet) (Settings, error) {
	v := viper.New()
	v.SetDefault("data", ".wcsim")
	v.SetDefault("log_level", "info")
	v.SetDefault("workers", runtime.GOMAXPROCS(0))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range map[string]string{"data": "data", "log_level": "log-level", "workers": "workers"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Settings{}, err
				}
			}
		}
	}

	return Settings{
		DataDir:  v.GetString("data"),
		LogLevel: v.GetString("log_level"),
		Workers:  v.GetInt("workers"),
	}, nil
}
