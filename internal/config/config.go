package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config хранит основные настройки приложения.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	GraphQLURL    string
	APIToken      string
}

func LoadConfig() *Config {
	// .env подхватываем, если он есть; иначе берём переменные окружения.
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		GraphQLURL:    os.Getenv("GRAPHQL_URL"),
		APIToken:      os.Getenv("API_TOKEN"),
	}

	// Значения по умолчанию (на случай, если env-переменные не заданы)
	if cfg.TelegramToken == "" {
		log.Println("TELEGRAM_BOT_TOKEN не задан в окружении")
		cfg.TelegramToken = "CHANGE_ME"
	}
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL не задан в окружении, используем дефолтную строку подключения")
		cfg.DatabaseURL = "user=myuser password=mypass dbname=mydb host=localhost port=5432 sslmode=disable"
	}
	if cfg.GraphQLURL == "" {
		log.Println("GRAPHQL_URL не задан в окружении, используем локальный сервер")
		cfg.GraphQLURL = "http://localhost:5000/graphql"
	}
	if cfg.APIToken == "" {
		log.Println("API_TOKEN не задан, запросы пойдут без авторизации")
	}

	return cfg
}
