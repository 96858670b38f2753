package config

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/olegkurtov/accesshub/internal/flagx"
)

// Duration wraps time.Duration so JSON config files can express
// intervals as either strings ("15m") or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return errors.New("invalid duration")
	}
	return nil
}

// jsonConfig is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, set fields are copied into
// the runtime Config. Pointer fields distinguish "absent" from
// zero values so the overlay never clobbers defaults.
type jsonConfig struct {
	EndpointAddrHTTP      *string   `json:"endpoint_addr_http"`
	DatabaseDSN           *string   `json:"database_dsn"`
	SecretKey             *string   `json:"secret_key"`
	TokenValidityDuration *Duration `json:"token_validity_duration"`
	SMTPHost              *string   `json:"smtp_host"`
	SMTPPort              *int      `json:"smtp_port"`
	SMTPUsername          *string   `json:"smtp_username"`
	SMTPPassword          *string   `json:"smtp_password"`
	SMTPFrom              *string   `json:"smtp_from"`
}

// parseJSON loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If no file is named,
// nothing happens. An unreadable or invalid file panics: a broken
// config should stop the server before it binds anything.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigPath()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.SMTPHost != nil {
		config.SMTPHost = *c.SMTPHost
	}
	if c.SMTPPort != nil {
		config.SMTPPort = *c.SMTPPort
	}
	if c.SMTPUsername != nil {
		config.SMTPUsername = *c.SMTPUsername
	}
	if c.SMTPPassword != nil {
		config.SMTPPassword = *c.SMTPPassword
	}
	if c.SMTPFrom != nil {
		config.SMTPFrom = *c.SMTPFrom
	}
}
