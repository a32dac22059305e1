package bot

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bvneilson/neighborhood-chef-fe/internal/graphql"
)

// NewBot инициализирует и возвращает *tgbotapi.BotAPI
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	// Можно включить Debug-логирование:
	bot.Debug = false
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Запустить бота"},
		{Command: "help", Description: "Справка"},
		{Command: "create", Description: "Создать событие"},
		{Command: "edit", Description: "Изменить своё событие"},
		{Command: "resume", Description: "Продолжить незаконченное событие"},
		{Command: "cancel", Description: "Отменить текущее событие"},
		{Command: "bind", Description: "Привязать аккаунт сервиса"},
	}

	config := tgbotapi.NewSetMyCommands(commands...)
	_, err = bot.Request(config)
	if err != nil {
		log.Fatalf("Ошибка при установке команд: %v", err)
	}
	fmt.Printf("Бот %s успешно инициализирован\n", bot.Self.UserName)
	return bot, nil
}

// Run запускает основной цикл: чтение апдейтов и их обработку
func Run(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, api *graphql.Client) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		// Inline-кнопки (CallbackQuery)
		if update.CallbackQuery != nil {
			HandleCallbackQuery(bot, pool, api, update.CallbackQuery)
			continue
		}

		// Обычные сообщения
		if update.Message == nil {
			continue
		}

		if update.Message.IsCommand() {
			handleCommand(bot, pool, api, update.Message)
		} else {
			// Возможно, пользователь в процессе пошагового мастера
			handleWizardSteps(bot, pool, update.Message)
		}
	}
	return nil
}
