package config

import "os"

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	DSN string
}

type AuthConfig struct {
	JWTSecret     string
	JWTAccessTTL  string
	JWTRefreshTTL string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port: getenv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			DSN: getenv("DATABASE_URL",
				"host=localhost user=postgres password=postgres dbname=scriptorium port=5432 sslmode=disable"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			JWTAccessTTL:  getenv("JWT_ACCESS_TTL", "15m"),
			JWTRefreshTTL: getenv("JWT_REFRESH_TTL", "168h"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
