package core

import (
	"fmt"
	"strings"
)

// Config is the factory configuration. Name is the identity key used for
// management registration and serialization surrogates; everything else
// feeds the underlying pool engine.
type Config struct {
	Name                        string `koanf:"name" mapstructure:"name"`
	URL                         string `koanf:"url" mapstructure:"url"`
	DriverName                  string `koanf:"driver_name" mapstructure:"driver_name"`
	Username                    string `koanf:"username" mapstructure:"username"`
	Password                    string `koanf:"password" mapstructure:"password"`
	PasswordCipher              string `koanf:"password_cipher" mapstructure:"password_cipher"`
	DefaultTransactionIsolation string `koanf:"default_transaction_isolation" mapstructure:"default_transaction_isolation"`
	MaxWaitMillis               int    `koanf:"max_wait_ms" mapstructure:"max_wait_ms"`
	XADataSourceName            string `koanf:"xa_data_source" mapstructure:"xa_data_source"`
	BaseDir                     string `koanf:"base_dir" mapstructure:"base_dir"`
}

func DefaultConfig() Config {
	return Config{
		Name: "datasource",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("core: name is required")
	}
	if c.MaxWaitMillis < 0 {
		return fmt.Errorf("core: max_wait_ms must not be negative")
	}
	if c.DefaultTransactionIsolation != "" {
		if _, err := IsolationLevel(c.DefaultTransactionIsolation); err != nil {
			return err
		}
	}
	return nil
}
