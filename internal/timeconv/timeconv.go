package timeconv

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Пакет timeconv — чистые преобразования времени между тремя представлениями:
// редактируемые строки (дата YYYY-MM-DD, время HH:MM), ISO-8601 для сервера
// и 12-часовой формат для показа пользователю. Никаких побочных эффектов.

const (
	// DateLayout — формат редактируемой даты черновика.
	DateLayout = "2006-01-02"
	// ClockLayout — формат редактируемого времени черновика.
	ClockLayout = "15:04"
	// DisplayDateLayout — формат даты на странице предпросмотра.
	DisplayDateLayout = "Jan 2, 2006"
)

var (
	ErrMissingDate = fmt.Errorf("не задана дата события")
	ErrMissingTime = fmt.Errorf("не задано время события")
)

// ParseClock разбирает время в 24-часовом формате: "HHMM" или "HH:MM".
func ParseClock(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, ErrMissingTime
	}
	digits := s
	if len(s) == 5 && s[2] == ':' {
		digits = s[:2] + s[3:]
	}
	if len(digits) != 4 {
		return 0, 0, fmt.Errorf("некорректное время %q, ожидается HH:MM", s)
	}
	// Только цифры: Atoi принял бы знак, и "-130" превратился бы
	// в час -1, который time.Date молча унесёт на предыдущие сутки.
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, 0, fmt.Errorf("некорректное время %q, ожидается HH:MM", s)
		}
	}
	hour, err = strconv.Atoi(digits[:2])
	if err != nil {
		return 0, 0, fmt.Errorf("некорректное время %q: %w", s, err)
	}
	minute, err = strconv.Atoi(digits[2:])
	if err != nil {
		return 0, 0, fmt.Errorf("некорректное время %q: %w", s, err)
	}
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("некорректное время %q, ожидается HH:MM", s)
	}
	return hour, minute, nil
}

// To12Hour переводит 24-часовую строку в 12-часовую для показа:
// "0930" -> "09:30 AM", "1315" -> "01:15 PM".
// Часы 0 и 12 оба показываются как "12" (полночь AM, полдень PM).
func To12Hour(clock string) (string, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", h, minute, suffix), nil
}

// FormatDate переводит дату черновика в человекочитаемый вид для предпросмотра.
func FormatDate(date string) (string, error) {
	if strings.TrimSpace(date) == "" {
		return "", ErrMissingDate
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("некорректная дата %q: %w", date, err)
	}
	return d.Format(DisplayDateLayout), nil
}

// ToWire собирает из даты и 24-часового времени абсолютную метку времени
// в локальной зоне и сериализует её в ISO-8601 (зона сохраняется).
// Без даты преобразование невозможно — падаем сразу, это контракт.
func ToWire(date, clock string) (string, error) {
	if strings.TrimSpace(date) == "" {
		return "", ErrMissingDate
	}
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), time.Local)
	if err != nil {
		return "", fmt.Errorf("некорректная дата %q: %w", date, err)
	}
	ts := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.Local)
	return ts.Format(time.RFC3339), nil
}

// FromWire раскладывает ISO-метку обратно на дату и время черновика
// (в локальной зоне). Обратная операция к ToWire, используется при
// гидрации формы из сохранённого события.
func FromWire(iso string) (date, clock string, err error) {
	ts, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", "", fmt.Errorf("некорректная метка времени %q: %w", iso, err)
	}
	local := ts.In(time.Local)
	return local.Format(DateLayout), local.Format(ClockLayout), nil
}
