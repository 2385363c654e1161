package config

import (
	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(configFile string, cfg *Config) error {
	configUtil.AutomaticLoadEnv("BORROWLEND")
	if err := configUtil.LoadYaml(configFile, cfg); err != nil {
		return err
	}

	return Validate(cfg)
}

// Validate check required fields of cfg and of every seeded asset
func Validate(cfg *Config) error {
	if _, err := govalidator.ValidateStruct(cfg.App); err != nil {
		return err
	}

	for _, asset := range cfg.Assets {
		if _, err := govalidator.ValidateStruct(asset); err != nil {
			return err
		}
	}

	return nil
}
