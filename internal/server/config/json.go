package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/flagx"
	"github.com/dmitrijs2005/mindcare/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "5s"-style strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	EndpointAddrGRPC string `json:"endpoint_addr_grpc"`
	LogLevel         string `json:"log_level"`

	DatabaseDriver       string         `json:"database_driver"`
	DatabaseDSN          string         `json:"database_dsn"`
	DatabaseTimeout      timex.Duration `json:"database_timeout"`
	DatabaseMaxOpenConns int            `json:"database_max_open_conns"`

	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`

	AssistantAPIKey  string         `json:"assistant_api_key"`
	AssistantBaseURL string         `json:"assistant_base_url"`
	AssistantModel   string         `json:"assistant_model"`
	AssistantTimeout timex.Duration `json:"assistant_timeout"`

	RedisAddr        string         `json:"redis_addr"`
	RedisPassword    string         `json:"redis_password"`
	RedisDB          int            `json:"redis_db"`
	ChatHistoryLimit int            `json:"chat_history_limit"`
	ChatHistoryTTL   timex.Duration `json:"chat_history_ttl"`

	AuthRequestsPerMinute int `json:"auth_requests_per_minute"`
	AuthBurst             int `json:"auth_burst"`
	ChatRequestsPerMinute int `json:"chat_requests_per_minute"`
	ChatBurst             int `json:"chat_burst"`

	S3RootUser                string         `json:"s3_root_user"`
	S3RootPassword            string         `json:"s3_root_password"`
	S3Bucket                  string         `json:"s3_bucket"`
	S3Region                  string         `json:"s3_region"`
	S3BaseEndpoint            string         `json:"s3_base_endpoint"`
	ExportURLValidityDuration timex.Duration `json:"export_url_validity_duration"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

// parseJson overlays values from the file named by -c/-config. Keys missing
// from the file keep their current value. An unreadable file or invalid JSON
// panics: the server must not start on a half-applied configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.LogLevel, c.LogLevel)

	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setDuration(&config.DatabaseTimeout, c.DatabaseTimeout)
	setInt(&config.DatabaseMaxOpenConns, c.DatabaseMaxOpenConns)

	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)

	setString(&config.AssistantAPIKey, c.AssistantAPIKey)
	setString(&config.AssistantBaseURL, c.AssistantBaseURL)
	setString(&config.AssistantModel, c.AssistantModel)
	setDuration(&config.AssistantTimeout, c.AssistantTimeout)

	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setInt(&config.RedisDB, c.RedisDB)
	setInt(&config.ChatHistoryLimit, c.ChatHistoryLimit)
	setDuration(&config.ChatHistoryTTL, c.ChatHistoryTTL)

	setInt(&config.AuthRequestsPerMinute, c.AuthRequestsPerMinute)
	setInt(&config.AuthBurst, c.AuthBurst)
	setInt(&config.ChatRequestsPerMinute, c.ChatRequestsPerMinute)
	setInt(&config.ChatBurst, c.ChatBurst)

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.ExportURLValidityDuration, c.ExportURLValidityDuration)
}
