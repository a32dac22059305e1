package wizard

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bvneilson/neighborhood-chef-fe/internal/hashtags"
	"github.com/bvneilson/neighborhood-chef-fe/internal/models"
	"github.com/bvneilson/neighborhood-chef-fe/internal/modifiers"
	"github.com/bvneilson/neighborhood-chef-fe/internal/timeconv"
)

// Страницы мастера. Четвёртая — подтверждение, на неё попадают только
// после успешной отправки.
const (
	FirstPage = 1
	LastPage  = 4
)

// ErrSubmitInFlight — отправка уже идёт; повторный запрос отклоняем,
// а не ставим в очередь.
var ErrSubmitInFlight = errors.New("отправка события уже выполняется")

// HydrationError — сохранённое событие непригодно для редактирования
// (не хватает обязательных полей или битые данные). Вход в режим
// редактирования прерывается, частично заполненной формы не остаётся.
type HydrationError struct {
	Reason string
	Err    error
}

func (e *HydrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("событие не годится для редактирования: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("событие не годится для редактирования: %s", e.Reason)
}

func (e *HydrationError) Unwrap() error { return e.Err }

// Draft — редактируемые поля события. Date/StartTime/EndTime хранятся
// строками в формах YYYY-MM-DD и HH:MM, в ISO они превращаются только
// при сборке полезной нагрузки.
type Draft struct {
	ID          int     `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time,omitempty"`
	CategoryID  string  `json:"category_id"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Photo       string  `json:"photo,omitempty"`
}

// Session — состояние одного прохода мастера, от входа до teardown.
// Владеет номером страницы, черновиком, сессионной копией каталога
// модификаторов и списком хэштегов. Не потокобезопасна: все переходы
// происходят на одном событийном цикле.
type Session struct {
	page       int
	editing    bool
	savedID    int
	draft      Draft
	mods       []modifiers.Entry
	tags       []string
	submitting bool
	ended      bool
}

// New создаёт сессию в режиме создания: страница 1, пустой черновик,
// свежая копия каталога модификаторов.
func New() *Session {
	return &Session{
		page: FirstPage,
		mods: modifiers.Catalog(),
	}
}

// BeginEdit гидрирует сессию из сохранённого события: скалярные поля —
// напрямую, метки времени — обратно в редактируемые строки, модификаторы —
// через восстановление поверх копии каталога. Идемпотентна: повторный
// вызов с тем же событием даёт то же содержимое сессии. При любой ошибке
// сессия остаётся нетронутой.
func (s *Session) BeginEdit(ev models.SavedEvent) error {
	if ev.ID == 0 {
		return &HydrationError{Reason: "нет идентификатора"}
	}
	if ev.Title == "" {
		return &HydrationError{Reason: "нет названия"}
	}
	if ev.CategoryID == "" {
		return &HydrationError{Reason: "нет категории"}
	}

	date, start, err := timeconv.FromWire(ev.StartTime)
	if err != nil {
		return &HydrationError{Reason: "время начала", Err: err}
	}
	var end string
	if ev.EndTime != nil && *ev.EndTime != "" {
		if _, end, err = timeconv.FromWire(*ev.EndTime); err != nil {
			return &HydrationError{Reason: "время окончания", Err: err}
		}
	}

	var saved models.ModifiersPayload
	if ev.Modifiers != "" {
		if err := json.Unmarshal([]byte(ev.Modifiers), &saved); err != nil {
			return &HydrationError{Reason: "модификаторы", Err: err}
		}
	}
	var tags models.HashtagsPayload
	if ev.Hashtags != "" {
		if err := json.Unmarshal([]byte(ev.Hashtags), &tags); err != nil {
			return &HydrationError{Reason: "хэштеги", Err: err}
		}
	}

	photo := ""
	if ev.Photo != "" && ev.Photo != models.PhotoNone {
		photo = ev.Photo
	}

	// Всё распаковалось — только теперь трогаем состояние.
	s.draft = Draft{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		CategoryID:  ev.CategoryID,
		Address:     ev.Address,
		Latitude:    ev.Latitude,
		Longitude:   ev.Longitude,
		Photo:       photo,
	}
	s.mods = modifiers.Restore(saved.Modifiers)
	s.tags = hashtags.Replace(tags.Hashtags)
	s.editing = true
	s.savedID = ev.ID
	s.page = FirstPage
	return nil
}

// End — teardown сессии. Выполняется ровно один раз, сколько бы путей
// завершения ни сработало (отмена, уход, успешная отправка). Порядок:
// сброс модификаторов, затем признак редактирования и ссылка на
// сохранённое событие, затем страница.
func (s *Session) End() {
	if s.ended {
		return
	}
	s.ended = true
	modifiers.Reset(s.mods)
	s.editing = false
	s.savedID = 0
	s.page = FirstPage
	s.draft = Draft{}
	s.tags = nil
	s.submitting = false
}

// Ended сообщает, выполнен ли teardown.
func (s *Session) Ended() bool { return s.ended }

// Page возвращает текущую страницу мастера.
func (s *Session) Page() int { return s.page }

// SetPage — явный переход на страницу. Других переходов у мастера нет.
func (s *Session) SetPage(n int) error {
	if n < FirstPage || n > LastPage {
		return fmt.Errorf("нет страницы %d", n)
	}
	s.page = n
	return nil
}

// Editing сообщает, редактируем ли мы сохранённое событие.
func (s *Session) Editing() bool { return s.editing }

// SavedID — идентификатор редактируемого события (0 в режиме создания).
func (s *Session) SavedID() int { return s.savedID }

// Draft возвращает копию черновика для чтения.
func (s *Session) Draft() Draft { return s.draft }

// Сеттеры полей черновика. Каждая страница пишет только свои поля,
// поэтому интерфейс — явные функции, а не доступ к структуре.

func (s *Session) SetTitle(v string)       { s.draft.Title = v }
func (s *Session) SetDescription(v string) { s.draft.Description = v }
func (s *Session) SetDate(v string)        { s.draft.Date = v }
func (s *Session) SetStartTime(v string)   { s.draft.StartTime = v }
func (s *Session) SetEndTime(v string)     { s.draft.EndTime = v }
func (s *Session) SetCategory(v string)    { s.draft.CategoryID = v }
func (s *Session) SetPhoto(v string)       { s.draft.Photo = v }

// SetLocation задаёт адрес и координаты одним вызовом — они приходят
// вместе от внешнего геокодера.
func (s *Session) SetLocation(address string, lat, lon float64) {
	s.draft.Address = address
	s.draft.Latitude = lat
	s.draft.Longitude = lon
}

// Modifiers отдаёт сессионную копию каталога (странице модификаторов
// разрешено переключать флаги через ToggleModifier).
func (s *Session) Modifiers() []modifiers.Entry { return s.mods }

// ToggleModifier переключает модификатор в сессионной копии.
func (s *Session) ToggleModifier(id int) bool {
	return modifiers.Toggle(s.mods, id)
}

// Hashtags возвращает текущий список тегов.
func (s *Session) Hashtags() []string { return s.tags }

func (s *Session) AddHashtag(tag string)    { s.tags = hashtags.Append(s.tags, tag) }
func (s *Session) RemoveHashtag(tag string) { s.tags = hashtags.Remove(s.tags, tag) }
func (s *Session) ReplaceHashtags(list []string) {
	s.tags = hashtags.Replace(list)
}

// BeginSubmit резервирует право на отправку. Пока она не завершена,
// вторая отправка из той же сессии невозможна.
func (s *Session) BeginSubmit() error {
	if s.submitting {
		return ErrSubmitInFlight
	}
	s.submitting = true
	return nil
}

// FinishSubmit завершает отправку. При успехе выполняется успешный
// сценарий: очистка хэштегов, сброс модификаторов, сброс фото и переход
// на страницу подтверждения. При неудаче сессия остаётся нетронутой —
// пользователь может повторить отправку.
func (s *Session) FinishSubmit(succeeded bool) {
	s.submitting = false
	if !succeeded {
		return
	}
	s.tags = nil
	modifiers.Reset(s.mods)
	s.draft.Photo = ""
	s.page = LastPage
}
