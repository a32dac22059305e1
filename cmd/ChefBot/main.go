package main

import (
	"context"
	"log"

	"github.com/bvneilson/neighborhood-chef-fe/internal/bot"
	"github.com/bvneilson/neighborhood-chef-fe/internal/config"
	"github.com/bvneilson/neighborhood-chef-fe/internal/database"
	"github.com/bvneilson/neighborhood-chef-fe/internal/graphql"
	"github.com/bvneilson/neighborhood-chef-fe/internal/services"
)

func main() {
	// 1. Читаем конфиг (из .env или из окружения)
	cfg := config.LoadConfig()

	// 2. Подключаемся к БД (черновики мастера и привязки чатов)
	pool, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Не удалось подключиться к PostgreSQL: %v", err)
	}
	defer pool.Close()

	// 3. Клиент GraphQL-эндпоинта сервиса событий
	api := graphql.NewClient(cfg.GraphQLURL, cfg.APIToken)

	// 4. Создаём инстанс бота
	botAPI, err := bot.NewBot(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Ошибка при создании бота: %v", err)
	}

	// 5. Запускаем напоминание о заброшенных черновиках
	go services.StartDraftReminder(botAPI, pool)

	// 6. Запускаем основной цикл обработки
	if err := bot.Run(botAPI, pool, api); err != nil {
		log.Fatalf("Ошибка запуска бота: %v", err)
	}
}
