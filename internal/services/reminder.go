package services

import (
	"context"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// draftMaxAge — сколько черновик может лежать без движения, прежде чем
// мы напомним о нём пользователю.
const draftMaxAge = time.Hour

// StartDraftReminder запускает цикл, который раз в 10 минут ищет
// заброшенные черновики и напоминает о них. Каждому черновику — одно
// напоминание; после любого нового шага в диалоге флаг сбрасывается.
func StartDraftReminder(bot *tgbotapi.BotAPI, pool *pgxpool.Pool) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		<-ticker.C
		ctx := context.Background()

		chats, err := StaleDraftChats(ctx, pool, time.Now(), draftMaxAge)
		if err != nil {
			log.Println("Ошибка StaleDraftChats:", err)
			continue
		}

		for _, chatID := range chats {
			text := "У вас незаконченное событие. Продолжить — /resume, отменить — /cancel."
			if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
				log.Println("Ошибка отправки напоминания:", err)
				continue
			}
			if err := MarkDraftReminded(ctx, pool, chatID); err != nil {
				log.Println("Ошибка MarkDraftReminded:", err)
			}
		}
	}
}
