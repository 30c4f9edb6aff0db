package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Store        StoreConfig
	DB           DBConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Admin        AdminConfig
	RateLimit    RateLimitConfig
	Catalog      CatalogConfig
	SMTP         SMTPConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if cfg.Store.Driver == StoreDriverPostgres {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.Store.Driver == StoreDriverMongo && cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("%s is required when %s=%s", EnvMongoURI, EnvStoreDriver, StoreDriverMongo)
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"HAVEN_APP_ENV" required:"true"`
	Port         string   `envconfig:"HAVEN_APP_PORT" default:"5000"`
	LogLevel     string   `envconfig:"HAVEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"HAVEN_LOG_WARN_STACK" default:"false"`
	FrontendURL  string   `envconfig:"HAVEN_FRONTEND_URL"`
	CORSOrigins  []string `envconfig:"HAVEN_CORS_ORIGINS" default:"https://haven-furnitures.vercel.app,http://localhost:3000,http://localhost:3001,http://localhost:3002,http://localhost:3003"`
	BodyLimitMB  int      `envconfig:"HAVEN_BODY_LIMIT_MB" default:"10"`

	ShutdownTimeout time.Duration `envconfig:"HAVEN_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

// AllowedOrigins merges the configured origins with the frontend URL, dropping duplicates.
func (a AppConfig) AllowedOrigins() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, origin := range append([]string{a.FrontendURL}, a.CORSOrigins...) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			continue
		}
		if _, ok := seen[origin]; ok {
			continue
		}
		seen[origin] = struct{}{}
		out = append(out, origin)
	}
	return out
}

type StoreConfig struct {
	Driver string `envconfig:"HAVEN_STORE_DRIVER" default:"postgres"`
}

func (s *StoreConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case StoreDriverPostgres, StoreDriverSQLite, StoreDriverMongo:
		return nil
	}
	return fmt.Errorf("unsupported %s %q", EnvStoreDriver, s.Driver)
}

type DBConfig struct {
	DSN        string `envconfig:"HAVEN_DB_DSN"`
	SQLitePath string `envconfig:"HAVEN_SQLITE_PATH" default:"file:haven.db?cache=shared&_pragma=foreign_keys(1)"`

	Host     string `envconfig:"HAVEN_DB_HOST"`
	Port     int    `envconfig:"HAVEN_DB_PORT" default:"5432"`
	User     string `envconfig:"HAVEN_DB_USER"`
	Password string `envconfig:"HAVEN_DB_PASSWORD"`
	Name     string `envconfig:"HAVEN_DB_NAME"`
	SSLMode  string `envconfig:"HAVEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HAVEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HAVEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HAVEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HAVEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type MongoConfig struct {
	URI            string        `envconfig:"HAVEN_MONGO_URI"`
	Database       string        `envconfig:"HAVEN_MONGO_DATABASE" default:"haven-furnitures"`
	ConnectTimeout time.Duration `envconfig:"HAVEN_MONGO_CONNECT_TIMEOUT" default:"10s"`
	MaxPoolSize    uint64        `envconfig:"HAVEN_MONGO_MAX_POOL_SIZE" default:"20"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HAVEN_REDIS_URL"`
	Address      string        `envconfig:"HAVEN_REDIS_ADDR"`
	Password     string        `envconfig:"HAVEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"HAVEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HAVEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HAVEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HAVEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HAVEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HAVEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HAVEN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HAVEN_JWT_ISSUER" default:"haven-furnitures"`
	ExpirationMinutes int    `envconfig:"HAVEN_JWT_EXPIRATION_MINUTES" default:"480"`
}

// AccessTTL returns the lifetime of an admin access token and its session.
func (j JWTConfig) AccessTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HAVEN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HAVEN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HAVEN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HAVEN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HAVEN_ARGON_KEY_LEN" default:"32"`
}

// AdminConfig holds the single back-office account.
type AdminConfig struct {
	Email        string `envconfig:"HAVEN_ADMIN_EMAIL" required:"true"`
	PasswordHash string `envconfig:"HAVEN_ADMIN_PASSWORD_HASH" required:"true"`
}

type RateLimitConfig struct {
	Max    int           `envconfig:"HAVEN_RATE_LIMIT_MAX" default:"100"`
	Window time.Duration `envconfig:"HAVEN_RATE_LIMIT_WINDOW" default:"15m"`

	LoginWindow     time.Duration `envconfig:"HAVEN_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"HAVEN_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"HAVEN_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type CatalogConfig struct {
	DefaultPageSize int `envconfig:"HAVEN_CATALOG_DEFAULT_PAGE_SIZE" default:"50"`
	MaxPageSize     int `envconfig:"HAVEN_CATALOG_MAX_PAGE_SIZE" default:"100"`
}

func (c CatalogConfig) validate() error {
	if c.DefaultPageSize < 1 || c.MaxPageSize < 1 {
		return fmt.Errorf("catalog page sizes must be positive")
	}
	if c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("%s (%d) exceeds %s (%d)", EnvPageDefault, c.DefaultPageSize, EnvPageMax, c.MaxPageSize)
	}
	return nil
}

type SMTPConfig struct {
	Host          string `envconfig:"HAVEN_SMTP_HOST"`
	Port          int    `envconfig:"HAVEN_SMTP_PORT" default:"587"`
	Username      string `envconfig:"HAVEN_SMTP_USERNAME"`
	Password      string `envconfig:"HAVEN_SMTP_PASSWORD"`
	From          string `envconfig:"HAVEN_SMTP_FROM" default:"Haven Furnitures <no-reply@havenfurnitures.com>"`
	BusinessEmail string `envconfig:"HAVEN_BUSINESS_EMAIL"`
	BusinessName  string `envconfig:"HAVEN_BUSINESS_NAME" default:"Haven Furnitures"`
	BusinessPhone string `envconfig:"HAVEN_BUSINESS_PHONE"`
}

// Enabled reports whether outbound mail can be attempted at all.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

type GCPConfig struct {
	ProjectID              string `envconfig:"HAVEN_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"HAVEN_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"HAVEN_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string `envconfig:"HAVEN_GCS_BUCKET_NAME"`
	PublicBaseURL string `envconfig:"HAVEN_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
}

// Enabled reports whether an image host is configured.
func (g GCSConfig) Enabled() bool {
	return strings.TrimSpace(g.BucketName) != ""
}

type MediaConfig struct {
	MaxUploadMB    int    `envconfig:"HAVEN_MAX_UPLOAD_MB" default:"5"`
	Folder         string `envconfig:"HAVEN_MEDIA_FOLDER" default:"haven-furnitures"`
	PlaceholderURL string `envconfig:"HAVEN_MEDIA_PLACEHOLDER_URL" default:"/abstract-geometric-shapes.png"`
	PlaceholderID  string `envconfig:"HAVEN_MEDIA_PLACEHOLDER_ID" default:"demo_placeholder"`
}

// MaxUploadBytes converts the configured upload ceiling to bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	return int64(m.MaxUploadMB) << 20
}

type FeatureFlagsConfig struct {
	AutoMigrate   bool          `envconfig:"HAVEN_AUTO_MIGRATE" default:"false"`
	ExposeErrors  bool          `envconfig:"HAVEN_EXPOSE_ERRORS" default:"false"`
	IdempotentTTL time.Duration `envconfig:"HAVEN_IDEMPOTENCY_TTL" default:"24h"`
}

// ensureDSN assembles a postgres URL from the split HAVEN_DB_* variables
// when no DSN was given.
func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	parts := []struct{ env, value string }{
		{EnvDBHost, db.Host},
		{EnvDBUser, db.User},
		{EnvDBName, db.Name},
	}
	var missing []string
	for _, p := range parts {
		if strings.TrimSpace(p.value) == "" {
			missing = append(missing, p.env)
		}
	}
	if len(missing) != 0 {
		return fmt.Errorf("set %s, or all of %s", EnvDBDSN, strings.Join(missing, ", "))
	}

	dsn := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:   "/" + db.Name,
		User:   url.User(db.User),
	}
	if db.Password != "" {
		dsn.User = url.UserPassword(db.User, db.Password)
	}
	if db.SSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": {db.SSLMode}}.Encode()
	}
	db.DSN = dsn.String()
	return nil
}
