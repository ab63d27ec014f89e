package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"Ink_Blog/internal/pkg"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	MySQLDSN      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PageCacheTTL  time.Duration
	KafkaBrokers  []string
	KafkaTopic    string
	AccessSecret  string
	RefreshSecret string
	SMTP          pkg.SMTPConfig
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load 读取 .env（可选）和环境变量
func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getenv("REDIS_DB", "0"))
	cacheSec, _ := strconv.Atoi(getenv("PAGE_CACHE_SECONDS", "20"))
	smtpPort, _ := strconv.Atoi(getenv("SMTP_PORT", "587"))

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}

	return &Config{
		Addr:          getenv("ADDR", ":8080"),
		MySQLDSN:      getenv("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/blog?charset=utf8mb4&parseTime=True"),
		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		PageCacheTTL:  time.Duration(cacheSec) * time.Second,
		KafkaBrokers:  brokers,
		KafkaTopic:    getenv("KAFKA_TOPIC", "blog.follow.events"),
		AccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		SMTP: pkg.SMTPConfig{
			Host:     getenv("SMTP_HOST", "smtp.example.com"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("SMTP_FROM", "NoReply <no-reply@example.com>"),
		},
	}
}
