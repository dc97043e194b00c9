package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	SMTP   SMTPConfig
	Import ImportConfig
	Sales  SalesConfig
	S3     S3Config
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	Storage  string // postgres | memory
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
	MaxConns    int
	MinConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host              string
	Port              int
	CORSOrigins       string
	AuthRatePerMinute int // intentos de login/registro por IP; 0 = sin límite
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SMTPConfig servidor de correo para notificaciones (registro de usuarios).
// Host vacío = notificaciones deshabilitadas.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled indica si hay servidor SMTP configurado.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// ImportConfig límites de la importación masiva.
type ImportConfig struct {
	MaxUploadMB int
	AliasesFile string // YAML opcional con alias adicionales de encabezados
}

// SalesConfig parámetros del registro de ventas.
type SalesConfig struct {
	DefaultTaxRate decimal.Decimal
	ReceiptsDir    string
}

// S3Config bucket opcional para los comprobantes PDF.
// Bucket vacío = se guardan en Sales.ReceiptsDir.
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // LocalStack / MinIO
	AccessKey string
	SecretKey string
}

// Enabled indica si los comprobantes van a S3.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, SMTP_HOST, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	taxRate, err := decimal.NewFromString(getString(v, "SALES_DEFAULT_TAX_RATE", "0.16"))
	if err != nil {
		return nil, fmt.Errorf("SALES_DEFAULT_TAX_RATE inválido: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "ventas-api"),
			Storage:  strings.ToLower(getString(v, "APP_STORAGE", "postgres")),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "ventas"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", false),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 20),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "ventas-api"),
		},
		HTTP: HTTPConfig{
			Host:              getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:              getInt(v, "HTTP_PORT", 8080),
			CORSOrigins:       getString(v, "CORS_ORIGINS", "http://localhost:3000"),
			AuthRatePerMinute: getInt(v, "AUTH_RATE_PER_MINUTE", 20),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "no-reply@ventas.local"),
		},
		Import: ImportConfig{
			MaxUploadMB: getInt(v, "IMPORT_MAX_UPLOAD_MB", 20),
			AliasesFile: getString(v, "IMPORT_ALIASES_FILE", ""),
		},
		Sales: SalesConfig{
			DefaultTaxRate: taxRate,
			ReceiptsDir:    getString(v, "RECEIPTS_DIR", "./data/receipts"),
		},
		S3: S3Config{
			Bucket:    getString(v, "RECEIPTS_S3_BUCKET", ""),
			Prefix:    getString(v, "RECEIPTS_S3_PREFIX", "receipts/"),
			Region:    getString(v, "AWS_REGION", "us-east-1"),
			Endpoint:  getString(v, "AWS_S3_ENDPOINT", ""),
			AccessKey: getString(v, "AWS_ACCESS_KEY_ID", ""),
			SecretKey: getString(v, "AWS_SECRET_ACCESS_KEY", ""),
		},
	}

	if cfg.App.Storage != "postgres" && cfg.App.Storage != "memory" {
		return nil, fmt.Errorf("APP_STORAGE debe ser postgres o memory, no %q", cfg.App.Storage)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}
