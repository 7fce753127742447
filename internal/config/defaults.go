package config

import (
	"github.com/knadh/koanf/providers/confmap"

	"github.com/jspargo/remind/internal/constants"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"database": map[string]interface{}{
			"driver": DriverSQLite,
			"path":   constants.DefaultConfigPath,
		},
		"log": map[string]interface{}{
			"debug": false,
		},
		"daemon": map[string]interface{}{
			"poll_interval_seconds": int(constants.DefaultPollInterval.Seconds()),
		},
		"notify": map[string]interface{}{
			"enabled": true,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.config/remind/config.yaml"
}
