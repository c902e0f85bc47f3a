package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// 保存先の種類
const (
	DriverJSON     = "json"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（:8080 形式に正規化）

	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error

	StoreDriver string // json/postgres/sqlite
	StorePath   string // JSONファイルのパス
	StoreStrict bool   // 壊れたJSONをエラーにする

	SQLitePath string // SQLiteファイルのパス

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト
	PostgresPort     int    // DBポート
	PostgresSSLMode  string

	FEURL string // フロントURL（CORS）。空なら全許可
}

// Loadは環境変数から読む。未設定の項目は既定値。
// .env の読み込みは呼び出し側（main）で行う。
func Load() (Config, error) {
	pgPort, err := atoiOr("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}

	strict, err := boolOr("STORE_STRICT", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: NormalizePort(getenv("PORT", "8080")),

		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", DriverJSON)),
		StorePath:   getenv("STORE_PATH", "data/db.json"),
		StoreStrict: strict,

		SQLitePath: getenv("SQLITE_PATH", "data/inventory.db"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "inventory"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		FEURL: os.Getenv("FE_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 値の整合性チェック（フラグで上書きした後にも呼ぶ）
func (c Config) Validate() error {
	if c.Port == "" || c.Port == ":" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := strconv.Atoi(strings.TrimPrefix(c.Port, ":")); err != nil {
		return fmt.Errorf("PORT must be number: %w", err)
	}

	switch c.StoreDriver {
	case DriverJSON:
		if c.StorePath == "" {
			return fmt.Errorf("STORE_PATH is required")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of json, postgres, sqlite: got %q", c.StoreDriver)
	}

	switch c.GoEnv {
	case "dev", "prod":
	default:
		return fmt.Errorf("GO_ENV must be dev or prod: got %q", c.GoEnv)
	}
	return nil
}

func (c Config) IsProd() bool { return c.GoEnv == "prod" }

// Postgres の DSN。DATABASE_URL があればそれを使う。
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

// "8080" → ":8080"、":8080" はそのまま
func NormalizePort(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if v[0] != ':' {
		return ":" + v
	}
	return v
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func boolOr(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}
