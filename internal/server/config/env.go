package config

import "github.com/dmitrijs2005/mindcare/internal/flagx"

// EnvPrefix is prepended to every environment variable the server reads.
const EnvPrefix = "MINDCARE_"

// parseEnv overlays MINDCARE_* environment variables. Unset, empty or
// unparsable values leave the current setting untouched.
func parseEnv(config *Config) {
	flagx.EnvString(EnvPrefix+"HTTP_ADDR", &config.EndpointAddrHTTP)
	flagx.EnvString(EnvPrefix+"GRPC_ADDR", &config.EndpointAddrGRPC)
	flagx.EnvString(EnvPrefix+"LOG_LEVEL", &config.LogLevel)

	flagx.EnvString(EnvPrefix+"DATABASE_DRIVER", &config.DatabaseDriver)
	flagx.EnvString(EnvPrefix+"DATABASE_DSN", &config.DatabaseDSN)
	flagx.EnvDuration(EnvPrefix+"DATABASE_TIMEOUT", &config.DatabaseTimeout)
	flagx.EnvInt(EnvPrefix+"DATABASE_MAX_OPEN_CONNS", &config.DatabaseMaxOpenConns)

	flagx.EnvString(EnvPrefix+"SECRET_KEY", &config.SecretKey)
	flagx.EnvDuration(EnvPrefix+"ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	flagx.EnvDuration(EnvPrefix+"REFRESH_TOKEN_TTL", &config.RefreshTokenValidityDuration)

	flagx.EnvString(EnvPrefix+"ASSISTANT_API_KEY", &config.AssistantAPIKey)
	flagx.EnvString(EnvPrefix+"ASSISTANT_BASE_URL", &config.AssistantBaseURL)
	flagx.EnvString(EnvPrefix+"ASSISTANT_MODEL", &config.AssistantModel)
	flagx.EnvDuration(EnvPrefix+"ASSISTANT_TIMEOUT", &config.AssistantTimeout)

	flagx.EnvString(EnvPrefix+"REDIS_ADDR", &config.RedisAddr)
	flagx.EnvString(EnvPrefix+"REDIS_PASSWORD", &config.RedisPassword)
	flagx.EnvInt(EnvPrefix+"REDIS_DB", &config.RedisDB)
	flagx.EnvInt(EnvPrefix+"CHAT_HISTORY_LIMIT", &config.ChatHistoryLimit)
	flagx.EnvDuration(EnvPrefix+"CHAT_HISTORY_TTL", &config.ChatHistoryTTL)

	flagx.EnvInt(EnvPrefix+"AUTH_REQUESTS_PER_MINUTE", &config.AuthRequestsPerMinute)
	flagx.EnvInt(EnvPrefix+"AUTH_BURST", &config.AuthBurst)
	flagx.EnvInt(EnvPrefix+"CHAT_REQUESTS_PER_MINUTE", &config.ChatRequestsPerMinute)
	flagx.EnvInt(EnvPrefix+"CHAT_BURST", &config.ChatBurst)

	flagx.EnvString(EnvPrefix+"S3_ROOT_USER", &config.S3RootUser)
	flagx.EnvString(EnvPrefix+"S3_ROOT_PASSWORD", &config.S3RootPassword)
	flagx.EnvString(EnvPrefix+"S3_BUCKET", &config.S3Bucket)
	flagx.EnvString(EnvPrefix+"S3_REGION", &config.S3Region)
	flagx.EnvString(EnvPrefix+"S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	flagx.EnvDuration(EnvPrefix+"EXPORT_URL_TTL", &config.ExportURLValidityDuration)
}
