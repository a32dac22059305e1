package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bvneilson/neighborhood-chef-fe/internal/graphql"
	"github.com/bvneilson/neighborhood-chef-fe/internal/submit"
	"github.com/bvneilson/neighborhood-chef-fe/internal/timeconv"
	"github.com/bvneilson/neighborhood-chef-fe/internal/wizard"
)

// HandleCallbackQuery обрабатывает клики по inline-кнопкам
func HandleCallbackQuery(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, api *graphql.Client, cq *tgbotapi.CallbackQuery) {
	chatID := cq.Message.Chat.ID
	data := cq.Data

	switch {
	case data == "date_today":
		handleDatePick(bot, pool, chatID, cq, time.Now())
	case data == "date_tomorrow":
		handleDatePick(bot, pool, chatID, cq, time.Now().Add(24*time.Hour))
	case strings.HasPrefix(data, "cat_"):
		handleCategoryPick(bot, pool, chatID, cq, strings.TrimPrefix(data, "cat_"))
	case strings.HasPrefix(data, "mod_"):
		handleModifierToggle(bot, pool, chatID, cq, strings.TrimPrefix(data, "mod_"))
	case data == "mods_done":
		handleModifiersDone(bot, pool, chatID, cq)
	case strings.HasPrefix(data, "edit_"):
		handleEditPick(bot, pool, api, chatID, cq, strings.TrimPrefix(data, "edit_"))
	case data == "confirm_submit":
		handleConfirmSubmit(bot, pool, api, chatID, cq)
	case data == "confirm_cancel":
		answer(bot, cq, "")
		endSession(pool, chatID)
		bot.Send(tgbotapi.NewMessage(chatID, "Событие отменено."))
	default:
		// Если callback_data не узнаём, сообщим пользователю
		answer(bot, cq, "Неизвестное действие")
	}
}

func answer(bot *tgbotapi.BotAPI, cq *tgbotapi.CallbackQuery, text string) {
	if _, err := bot.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		log.Println("Ошибка AnswerCallbackQuery:", err)
	}
}

func handleDatePick(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, chatID int64, cq *tgbotapi.CallbackQuery, day time.Time) {
	st, ok := chatSessions[chatID]
	if !ok || st.sess == nil || st.step != stepDate {
		answer(bot, cq, "Сейчас не выбирается дата.")
		return
	}

	st.sess.SetDate(day.Format(timeconv.DateLayout))
	st.step = stepStartTime
	answer(bot, cq, "Дата выбрана.")
	saveDraft(pool, chatID)
	sendStepPrompt(bot, chatID, st)
}

func handleCategoryPick(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, chatID int64, cq *tgbotapi.CallbackQuery, catID string) {
	st, ok := chatSessions[chatID]
	if !ok || st.sess == nil || st.step != stepCategory {
		answer(bot, cq, "Сейчас не выбирается категория.")
		return
	}

	for _, c := range categories {
		if c.ID == catID {
			st.sess.SetCategory(catID)
			st.step = stepAddress
			answer(bot, cq, "Категория: "+c.Title)
			saveDraft(pool, chatID)
			sendStepPrompt(bot, chatID, st)
			return
		}
	}
	answer(bot, cq, "Нет такой категории.")
}

func handleModifierToggle(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, chatID int64, cq *tgbotapi.CallbackQuery, rawID string) {
	st, ok := chatSessions[chatID]
	if !ok || st.sess == nil || st.step != stepModifiers {
		answer(bot, cq, "Сейчас не выбираются особенности.")
		return
	}

	id, err := strconv.Atoi(rawID)
	if err != nil || !st.sess.ToggleModifier(id) {
		answer(bot, cq, "Нет такой особенности.")
		return
	}
	answer(bot, cq, "")
	saveDraft(pool, chatID)

	// Обновляем клавиатуру на месте, чтобы были видны отметки.
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, cq.Message.MessageID, modifierKeyboard(st.sess))
	if _, err := bot.Send(edit); err != nil {
		log.Println("Ошибка обновления клавиатуры:", err)
	}
}

func handleModifiersDone(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, chatID int64, cq *tgbotapi.CallbackQuery) {
	st, ok := chatSessions[chatID]
	if !ok || st.sess == nil || st.step != stepModifiers {
		answer(bot, cq, "Сейчас не выбираются особенности.")
		return
	}

	st.step = stepHashtags
	answer(bot, cq, "")
	saveDraft(pool, chatID)
	sendStepPrompt(bot, chatID, st)
}

func handleEditPick(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, api *graphql.Client, chatID int64, cq *tgbotapi.CallbackQuery, rawID string) {
	st, ok := chatSessions[chatID]
	if !ok {
		answer(bot, cq, "Список устарел, вызовите /edit ещё раз.")
		return
	}

	id, err := strconv.Atoi(rawID)
	if err != nil {
		answer(bot, cq, "Некорректное событие.")
		return
	}

	ev, err := api.EventByID(context.Background(), id)
	if err != nil {
		log.Println("Ошибка EventByID:", err)
		answer(bot, cq, "Не удалось загрузить событие.")
		return
	}

	sess := wizard.New()
	if err := sess.BeginEdit(*ev); err != nil {
		// Событие битое — в редактирование не входим, формы не показываем.
		log.Println("Ошибка гидрации:", err)
		answer(bot, cq, "")
		bot.Send(tgbotapi.NewMessage(chatID, "Это событие не получается открыть для редактирования."))
		return
	}

	st.sess = sess
	st.step = stepTitle
	answer(bot, cq, "Редактируем «"+ev.Title+"».")
	saveDraft(pool, chatID)
	sendStepPrompt(bot, chatID, st)
}

func handleConfirmSubmit(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, api *graphql.Client, chatID int64, cq *tgbotapi.CallbackQuery) {
	st, ok := chatSessions[chatID]
	if !ok || st.sess == nil || st.step != stepConfirm {
		answer(bot, cq, "Подтверждать пока нечего.")
		return
	}
	answer(bot, cq, "")

	ev, err := submit.NewSubmitter(api).Submit(context.Background(), st.sess, st.userID)
	if errors.Is(err, wizard.ErrSubmitInFlight) {
		// Второй клик по кнопке, пока идёт первая отправка: игнорируем,
		// в очередь не ставим.
		return
	}
	if errors.Is(err, submit.ErrIncomplete) || errors.Is(err, submit.ErrEndBeforeStart) {
		bot.Send(tgbotapi.NewMessage(chatID, "Не получилось собрать событие: "+err.Error()))
		return
	}
	if err != nil {
		// Сессию не трогаем: черновик цел, можно нажать «Опубликовать» снова.
		log.Println("Ошибка отправки:", err)
		bot.Send(tgbotapi.NewMessage(chatID, "Не удалось отправить событие. Черновик сохранён, попробуйте ещё раз."))
		return
	}

	// Страница 4: подтверждение.
	verb := "создано"
	if st.sess.Editing() {
		verb = "обновлено"
	}
	bot.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Готово! Событие «%s» %s (ID=%d).", ev.Title, verb, ev.ID)))

	endSession(pool, chatID)
}
