package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bvneilson/neighborhood-chef-fe/internal/graphql"
	"github.com/bvneilson/neighborhood-chef-fe/internal/services"
	"github.com/bvneilson/neighborhood-chef-fe/internal/timeconv"
	"github.com/bvneilson/neighborhood-chef-fe/internal/wizard"
)

// Шаги диалога внутри страниц мастера. Страницы 1-4 принадлежат сессии
// (wizard.Session), шаг — деталь интерфейса бота.
const (
	stepTitle = iota + 1
	stepDescription
	stepDate
	stepStartTime
	stepEndTime
	stepCategory
	stepAddress
	stepCoords
	stepModifiers
	stepHashtags
	stepPhoto
	stepConfirm
)

// Категории событий сервиса. Идентификаторы совпадают с каталогом бэкенда.
var categories = []struct {
	ID    string
	Title string
}{
	{"1", "Завтрак"},
	{"2", "Бранч"},
	{"3", "Обед"},
	{"4", "Ужин"},
	{"5", "Напитки"},
	{"6", "Другое"},
}

// chatState хранит в памяти активный диалог мастера для чата.
type chatState struct {
	sess   *wizard.Session
	step   int
	userID int
}

var chatSessions = make(map[int64]*chatState)

// storedDraft — то, что уезжает в wizard_drafts: слепок сессии плюс
// текущий шаг диалога.
type storedDraft struct {
	Step    int             `json:"step"`
	UserID  int             `json:"user_id"`
	Session wizard.Snapshot `json:"session"`
}

func handleCommand(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, api *graphql.Client, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		cmdStart(bot, msg)
	case "help":
		cmdHelp(bot, msg)
	case "create":
		cmdCreate(bot, pool, msg)
	case "edit":
		cmdEdit(bot, pool, api, msg)
	case "resume":
		cmdResume(bot, pool, msg)
	case "cancel":
		cmdCancel(bot, pool, msg)
	case "bind":
		cmdBind(bot, pool, msg)
	default:
		unknownCommand(bot, msg)
	}
}

func cmdStart(bot *tgbotapi.BotAPI, msg *tgbotapi.Message) {
	text := "Привет! Я помогу создать событие для соседей.\n" +
		"Доступные команды:\n" +
		"/create — пошагово создать событие\n" +
		"/edit — изменить одно из своих событий\n" +
		"/resume — продолжить незаконченное событие\n" +
		"/cancel — отменить текущее событие\n" +
		"/bind <id> — привязать аккаунт сервиса\n" +
		"/help — справка"
	bot.Send(tgbotapi.NewMessage(msg.Chat.ID, text))
}

func cmdHelp(bot *tgbotapi.BotAPI, msg *tgbotapi.Message) {
	text := "Справка:\n" +
		"/create — начать диалог по созданию события\n" +
		"/edit — выбрать своё событие и изменить его\n" +
		"/resume — продолжить незаконченный диалог\n" +
		"/cancel — отменить текущий диалог\n" +
		"При редактировании отправьте «.», чтобы оставить старое значение.\n"
	bot.Send(tgbotapi.NewMessage(msg.Chat.ID, text))
}

func cmdBind(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Укажите идентификатор пользователя: /bind 123"))
		return
	}
	userID, err := strconv.Atoi(args)
	if err != nil || userID <= 0 {
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Некорректный идентификатор."))
		return
	}
	if err := services.BindChat(context.Background(), pool, msg.Chat.ID, userID); err != nil {
		log.Println("Ошибка BindChat:", err)
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Не удалось сохранить привязку."))
		return
	}
	bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Аккаунт привязан. Теперь можно создавать события: /create"))
}

func cmdCreate(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, msg *tgbotapi.Message) {
	userID, ok := resolveUser(bot, pool, msg.Chat.ID)
	if !ok {
		return
	}

	beginSession(msg.Chat.ID, &chatState{
		sess:   wizard.New(),
		step:   stepTitle,
		userID: userID,
	})
	saveDraft(pool, msg.Chat.ID)

	bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Приступим к созданию события."))
	sendStepPrompt(bot, msg.Chat.ID, chatSessions[msg.Chat.ID])
}

func cmdEdit(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, api *graphql.Client, msg *tgbotapi.Message) {
	userID, ok := resolveUser(bot, pool, msg.Chat.ID)
	if !ok {
		return
	}

	events, err := api.EventsByUser(context.Background(), userID)
	if err != nil {
		log.Println("Ошибка EventsByUser:", err)
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Не удалось получить список ваших событий."))
		return
	}
	if len(events) == 0 {
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "У вас пока нет событий. Создать новое — /create"))
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, ev := range events {
		label := ev.Title
		if date, clock, err := timeconv.FromWire(ev.StartTime); err == nil {
			label = fmt.Sprintf("%s (%s %s)", ev.Title, date, clock)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("edit_%d", ev.ID)),
		))
	}

	// Пользователя запоминаем заранее: выбор события придёт callback'ом.
	beginSession(msg.Chat.ID, &chatState{userID: userID})

	out := tgbotapi.NewMessage(msg.Chat.ID, "Какое событие изменить?")
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	bot.Send(out)
}

func cmdResume(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, msg *tgbotapi.Message) {
	payload, err := services.LoadDraft(context.Background(), pool, msg.Chat.ID)
	if err != nil {
		log.Println("Ошибка LoadDraft:", err)
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Не удалось загрузить черновик."))
		return
	}
	if payload == nil {
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Незаконченных событий нет. Создать новое — /create"))
		return
	}

	var stored storedDraft
	if err := json.Unmarshal(payload, &stored); err != nil {
		log.Println("Ошибка разбора черновика:", err)
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Черновик повреждён, начните заново: /create"))
		services.DeleteDraft(context.Background(), pool, msg.Chat.ID)
		return
	}

	beginSession(msg.Chat.ID, &chatState{
		sess:   wizard.FromSnapshot(stored.Session),
		step:   stored.Step,
		userID: stored.UserID,
	})
	bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Продолжаем с того же места."))
	sendStepPrompt(bot, msg.Chat.ID, chatSessions[msg.Chat.ID])
}

func cmdCancel(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, msg *tgbotapi.Message) {
	if _, ok := chatSessions[msg.Chat.ID]; !ok {
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Активного события нет."))
		return
	}
	endSession(pool, msg.Chat.ID)
	bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Событие отменено."))
}

func unknownCommand(bot *tgbotapi.BotAPI, msg *tgbotapi.Message) {
	bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Неизвестная команда. Используйте /help"))
}

// resolveUser находит пользователя сервиса для чата; без привязки
// мастер не запускается (user_id обязателен в полезной нагрузке).
func resolveUser(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, chatID int64) (int, bool) {
	userID, err := services.UserIDByChat(context.Background(), pool, chatID)
	if errors.Is(err, services.ErrNoUser) {
		bot.Send(tgbotapi.NewMessage(chatID, "Сначала привяжите аккаунт сервиса: /bind <id>"))
		return 0, false
	}
	if err != nil {
		log.Println("Ошибка UserIDByChat:", err)
		bot.Send(tgbotapi.NewMessage(chatID, "Не удалось проверить аккаунт, попробуйте позже."))
		return 0, false
	}
	return userID, true
}

// beginSession устанавливает новое состояние диалога для чата.
// Если в чате уже шёл мастер, его сессия завершается: teardown
// выполняется на любом пути выхода, включая перезапуск диалога.
func beginSession(chatID int64, next *chatState) {
	if prev, ok := chatSessions[chatID]; ok && prev.sess != nil {
		prev.sess.End()
	}
	chatSessions[chatID] = next
}

// endSession — teardown: завершаем сессию мастера, удаляем черновик
// и состояние чата. Вызывается на каждом пути завершения диалога.
func endSession(pool *pgxpool.Pool, chatID int64) {
	if st, ok := chatSessions[chatID]; ok && st.sess != nil {
		st.sess.End()
	}
	delete(chatSessions, chatID)
	if err := services.DeleteDraft(context.Background(), pool, chatID); err != nil {
		log.Println("Ошибка DeleteDraft:", err)
	}
}

// saveDraft сохраняет текущее состояние диалога в БД, чтобы пережить
// перезапуск бота.
func saveDraft(pool *pgxpool.Pool, chatID int64) {
	st, ok := chatSessions[chatID]
	if !ok || st.sess == nil {
		return
	}
	payload, err := json.Marshal(storedDraft{
		Step:    st.step,
		UserID:  st.userID,
		Session: st.sess.Snapshot(),
	})
	if err != nil {
		log.Println("Ошибка сериализации черновика:", err)
		return
	}
	if err := services.SaveDraft(context.Background(), pool, chatID, payload); err != nil {
		log.Println("Ошибка SaveDraft:", err)
	}
}

// -------------------------------------------------------------------
// Пошаговый диалог (handleWizardSteps)
// -------------------------------------------------------------------

func handleWizardSteps(bot *tgbotapi.BotAPI, pool *pgxpool.Pool, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, ok := chatSessions[chatID]
	if !ok || st.sess == nil {
		// Нет активного диалога — выходим
		return
	}

	text := strings.TrimSpace(msg.Text)
	keep := st.sess.Editing() && text == "."

	switch st.step {
	case stepTitle:
		if !keep {
			if text == "" {
				bot.Send(tgbotapi.NewMessage(chatID, "Название не может быть пустым."))
				return
			}
			st.sess.SetTitle(text)
		}
		st.step = stepDescription

	case stepDescription:
		if !keep {
			st.sess.SetDescription(text)
		}
		st.step = stepDate

	case stepDate:
		if !keep {
			if _, err := time.Parse(timeconv.DateLayout, text); err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, "Не удалось распознать дату, формат YYYY-MM-DD."))
				return
			}
			st.sess.SetDate(text)
		}
		st.step = stepStartTime

	case stepStartTime:
		if !keep {
			clock, err := normalizeClock(text)
			if err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, "Некорректный формат времени (HH:MM)."))
				return
			}
			st.sess.SetStartTime(clock)
		}
		st.step = stepEndTime

	case stepEndTime:
		switch {
		case keep:
		case text == "-":
			st.sess.SetEndTime("")
		default:
			clock, err := normalizeClock(text)
			if err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, "Некорректный формат времени (HH:MM), либо «-», если окончание не нужно."))
				return
			}
			if !clockAfter(clock, st.sess.Draft().StartTime) {
				bot.Send(tgbotapi.NewMessage(chatID, "Окончание должно быть позже начала."))
				return
			}
			st.sess.SetEndTime(clock)
		}
		st.step = stepCategory

	case stepCategory:
		// Категорию выбирают кнопкой; текст здесь не принимаем.
		sendStepPrompt(bot, chatID, st)
		return

	case stepAddress:
		if !keep {
			if text == "" {
				bot.Send(tgbotapi.NewMessage(chatID, "Введите адрес события."))
				return
			}
			d := st.sess.Draft()
			st.sess.SetLocation(text, d.Latitude, d.Longitude)
		}
		st.step = stepCoords

	case stepCoords:
		switch {
		case keep:
		case msg.Location != nil:
			d := st.sess.Draft()
			st.sess.SetLocation(d.Address, msg.Location.Latitude, msg.Location.Longitude)
		case text == "-":
		default:
			lat, lon, err := parseCoords(text)
			if err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, "Ожидаются координаты «широта, долгота», точка на карте или «-»."))
				return
			}
			d := st.sess.Draft()
			st.sess.SetLocation(d.Address, lat, lon)
		}
		st.sess.SetPage(2)
		st.step = stepModifiers

	case stepModifiers:
		// Модификаторы переключаются кнопками.
		sendStepPrompt(bot, chatID, st)
		return

	case stepHashtags:
		if text == "-" {
			st.step = stepPhoto
			break
		}
		if strings.HasPrefix(text, "!") {
			st.sess.RemoveHashtag(strings.TrimSpace(strings.TrimPrefix(text, "!")))
			bot.Send(tgbotapi.NewMessage(chatID, "Тег убран. Ещё тег, «!тег» — убрать, «-» — дальше."))
			saveDraft(pool, chatID)
			return
		}
		st.sess.AddHashtag(text)
		bot.Send(tgbotapi.NewMessage(chatID, "Добавил. Ещё тег, «!тег» — убрать, «-» — дальше."))
		saveDraft(pool, chatID)
		return

	case stepPhoto:
		switch {
		case keep:
		case len(msg.Photo) > 0:
			// Берём самый крупный вариант — file_id и есть наша ссылка на фото.
			st.sess.SetPhoto(msg.Photo[len(msg.Photo)-1].FileID)
		case text == "-":
		default:
			bot.Send(tgbotapi.NewMessage(chatID, "Пришлите фото или «-», чтобы пропустить."))
			return
		}
		st.sess.SetPage(3)
		st.step = stepConfirm

	case stepConfirm:
		// Подтверждение — только кнопкой.
		sendStepPrompt(bot, chatID, st)
		return

	default:
		// Неизвестный шаг — на всякий случай сбросим
		endSession(pool, chatID)
		return
	}

	saveDraft(pool, chatID)
	sendStepPrompt(bot, chatID, st)
}

// sendStepPrompt — отправляет сообщение, что ожидается на текущем шаге
func sendStepPrompt(bot *tgbotapi.BotAPI, chatID int64, st *chatState) {
	d := st.sess.Draft()
	hint := ""
	if st.sess.Editing() {
		hint = " (или «.», чтобы оставить как есть)"
	}

	switch st.step {
	case stepTitle:
		bot.Send(tgbotapi.NewMessage(chatID, current("Введите название события", d.Title)+hint+":"))
	case stepDescription:
		bot.Send(tgbotapi.NewMessage(chatID, current("Введите описание", d.Description)+hint+":"))
	case stepDate:
		out := tgbotapi.NewMessage(chatID, current("Выберите дату или введите её (формат YYYY-MM-DD)", d.Date)+hint+":")
		out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Сегодня", "date_today"),
				tgbotapi.NewInlineKeyboardButtonData("Завтра", "date_tomorrow"),
			),
		)
		bot.Send(out)
	case stepStartTime:
		bot.Send(tgbotapi.NewMessage(chatID, current("Введите время начала (HH:MM)", d.StartTime)+hint+":"))
	case stepEndTime:
		bot.Send(tgbotapi.NewMessage(chatID, current("Введите время окончания (HH:MM) или «-», если оно не нужно", d.EndTime)+hint+":"))
	case stepCategory:
		var row []tgbotapi.InlineKeyboardButton
		var rows [][]tgbotapi.InlineKeyboardButton
		for i, c := range categories {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Title, "cat_"+c.ID))
			if len(row) == 3 || i == len(categories)-1 {
				rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
				row = nil
			}
		}
		out := tgbotapi.NewMessage(chatID, "Выберите категорию:")
		out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
		bot.Send(out)
	case stepAddress:
		bot.Send(tgbotapi.NewMessage(chatID, current("Введите адрес", d.Address)+hint+":"))
	case stepCoords:
		bot.Send(tgbotapi.NewMessage(chatID, "Пришлите точку на карте, координаты «широта, долгота» или «-», чтобы пропустить"+hint+":"))
	case stepModifiers:
		out := tgbotapi.NewMessage(chatID, "Отметьте особенности события и нажмите «Готово»:")
		out.ReplyMarkup = modifierKeyboard(st.sess)
		bot.Send(out)
	case stepHashtags:
		text := "Введите хэштег (по одному), «!тег» — убрать, «-» — дальше."
		if tags := st.sess.Hashtags(); len(tags) > 0 {
			text += "\nСейчас: " + strings.Join(tags, ", ")
		}
		bot.Send(tgbotapi.NewMessage(chatID, text))
	case stepPhoto:
		bot.Send(tgbotapi.NewMessage(chatID, "Пришлите фото события или «-», чтобы пропустить"+hint+":"))
	case stepConfirm:
		out := tgbotapi.NewMessage(chatID, previewText(st.sess))
		out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Опубликовать", "confirm_submit"),
				tgbotapi.NewInlineKeyboardButtonData("Отменить", "confirm_cancel"),
			),
		)
		bot.Send(out)
	}
}

// previewText — страница предпросмотра: черновик глазами гостя,
// время в 12-часовом формате.
func previewText(sess *wizard.Session) string {
	d := sess.Draft()

	var sb strings.Builder
	sb.WriteString("Проверьте событие:\n\n")
	sb.WriteString(d.Title + "\n")
	if date, err := timeconv.FormatDate(d.Date); err == nil {
		sb.WriteString(date + "\n")
	}
	if start, err := timeconv.To12Hour(d.StartTime); err == nil {
		line := start
		if end, err := timeconv.To12Hour(d.EndTime); d.EndTime != "" && err == nil {
			line += " — " + end
		}
		sb.WriteString(line + "\n")
	}
	if d.Address != "" {
		sb.WriteString(d.Address + "\n")
	}
	if d.Description != "" {
		sb.WriteString("\n" + d.Description + "\n")
	}
	for _, c := range categories {
		if c.ID == d.CategoryID {
			sb.WriteString("\nКатегория: " + c.Title + "\n")
		}
	}
	var picked []string
	for _, m := range sess.Modifiers() {
		if m.Active {
			picked = append(picked, m.Title)
		}
	}
	if len(picked) > 0 {
		sb.WriteString("Особенности: " + strings.Join(picked, ", ") + "\n")
	}
	if tags := sess.Hashtags(); len(tags) > 0 {
		sb.WriteString("Теги: " + strings.Join(tags, ", ") + "\n")
	}
	if d.Photo != "" {
		sb.WriteString("Фото: есть\n")
	}
	return sb.String()
}

func modifierKeyboard(sess *wizard.Session) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range sess.Modifiers() {
		label := m.Title
		if m.Active {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("mod_%d", m.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Готово", "mods_done"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// current добавляет к подсказке текущее значение поля (для редактирования).
func current(prompt, value string) string {
	if value == "" {
		return prompt
	}
	return fmt.Sprintf("%s\nСейчас: %s", prompt, value)
}

// normalizeClock приводит ввод пользователя к каноничному виду HH:MM.
func normalizeClock(s string) (string, error) {
	hour, minute, err := timeconv.ParseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// clockAfter сравнивает два времени HH:MM в рамках одного дня.
func clockAfter(a, b string) bool {
	ah, am, err := timeconv.ParseClock(a)
	if err != nil {
		return false
	}
	bh, bm, err := timeconv.ParseClock(b)
	if err != nil {
		return false
	}
	return ah*60+am > bh*60+bm
}

func parseCoords(s string) (lat, lon float64, err error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("ожидается «широта, долгота»")
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}
