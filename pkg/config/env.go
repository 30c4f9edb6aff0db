package config

// EnvPrefix namespaces every variable; the tags below already carry it so lookups
// fall back to the literal tag names.
const EnvPrefix = "HAVEN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMongo    = "mongo"
)

const (
	EnvAppEnv       = "HAVEN_APP_ENV"
	EnvPort         = "HAVEN_APP_PORT"
	EnvLogLevel     = "HAVEN_LOG_LEVEL"
	EnvFrontendURL  = "HAVEN_FRONTEND_URL"
	EnvCORSOrigins  = "HAVEN_CORS_ORIGINS"
	EnvStoreDriver  = "HAVEN_STORE_DRIVER"
	EnvDBDSN        = "HAVEN_DB_DSN"
	EnvDBHost       = "HAVEN_DB_HOST"
	EnvDBUser       = "HAVEN_DB_USER"
	EnvDBName       = "HAVEN_DB_NAME"
	EnvSQLitePath   = "HAVEN_SQLITE_PATH"
	EnvMongoURI     = "HAVEN_MONGO_URI"
	EnvMongoDB      = "HAVEN_MONGO_DATABASE"
	EnvRedisURL     = "HAVEN_REDIS_URL"
	EnvJWTSecret    = "HAVEN_JWT_SECRET"
	EnvJWTIssuer    = "HAVEN_JWT_ISSUER"
	EnvJWTExpMins   = "HAVEN_JWT_EXPIRATION_MINUTES"
	EnvAdminEmail   = "HAVEN_ADMIN_EMAIL"
	EnvAdminHash    = "HAVEN_ADMIN_PASSWORD_HASH"
	EnvRateLimit    = "HAVEN_RATE_LIMIT_MAX"
	EnvRateWindow   = "HAVEN_RATE_LIMIT_WINDOW"
	EnvPageDefault  = "HAVEN_CATALOG_DEFAULT_PAGE_SIZE"
	EnvPageMax      = "HAVEN_CATALOG_MAX_PAGE_SIZE"
	EnvSMTPHost     = "HAVEN_SMTP_HOST"
	EnvSMTPPort     = "HAVEN_SMTP_PORT"
	EnvSMTPFrom     = "HAVEN_SMTP_FROM"
	EnvBusinessMail = "HAVEN_BUSINESS_EMAIL"
	EnvGCSBucket    = "HAVEN_GCS_BUCKET_NAME"
	EnvMaxUploadMB  = "HAVEN_MAX_UPLOAD_MB"
	EnvAutoMigrate  = "HAVEN_AUTO_MIGRATE"
)
