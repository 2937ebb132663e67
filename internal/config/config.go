package config

import (
	"fmt"
	"os"
	"strconv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	RedisAddr     string // 検索キャッシュ用（空なら無効）
	RedisPassword string
	RedisDB       int

	LogLevel string // zerologのレベル（debug/info/warn）

	GoEnv string // dev/prod
}

// Loadは環境変数
// DB接続情報はdb.Connect側がDATABASE_URL/POSTGRES_*を直接読む。
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		LogLevel: os.Getenv("LOG_LEVEL"),

		GoEnv: os.Getenv("GO_ENV"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("REDIS_DB must be a number: %w", err)
		}
		cfg.RedisDB = n
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.GoEnv == "" {
		cfg.GoEnv = "dev"
	}

	return cfg, nil
}
