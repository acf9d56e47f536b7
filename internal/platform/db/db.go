package db

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

const driverName = "mysql"

// 開発用デフォルト（本番は環境変数で上書きすること）
const (
	defaultDSN       = "root:123456@tcp(localhost:3306)/book_collection?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC"
	defaultSecretKey = "dev-secret-key"
)

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type Config struct {
	Version   string         `yaml:"version"`
	Mode      string         `yaml:"mode"`
	DB        DatabaseConfig `yaml:"database"`
	SecretKey string         `yaml:"secret_key"`

	// DATABASE_URL で上書きされた完全DSN（yamlには書かない）
	DSN string `yaml:"-"`
}

// LoadConfig: yaml設定を読み、環境変数 DATABASE_URL / SECRET_KEY で上書きする。
// 設定ファイルが無ければ開発用デフォルトで動く。
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Mode: "dev"}

	buf, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}

	cfg.DSN = cfg.dsn()
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DSN = v
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = defaultSecretKey
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}
	return cfg, nil
}

func (c *Config) dsn() string {
	if c.DB.Host == "" {
		return defaultDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC",
		c.DB.Username, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.DBName)
}

func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("接続準備に失敗: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB接続に失敗: %w", err)
	}

	// 接続プール（合算がMySQLの max_connections を超えないよう配分する）
	db.SetMaxOpenConns(80)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
