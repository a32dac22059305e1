package models

// PhotoNone — сентинел «фото нет». Бэкенд хранит отсутствующее фото
// строкой "null", а не пропуском поля, поэтому сравниваем именно со строкой.
const PhotoNone = "null"

// EventModifier — модификатор события в том виде, в котором он уходит
// на сервер: без иконки, только данные.
type EventModifier struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// ModifiersPayload — обёртка для сериализации списка модификаторов.
type ModifiersPayload struct {
	Modifiers []EventModifier `json:"modifiers"`
}

// HashtagsPayload — обёртка для сериализации списка хэштегов.
type HashtagsPayload struct {
	Hashtags []string `json:"hashtags"`
}

// EventInput — входной объект мутаций createEvent/updateEvent.
// StartTime/EndTime — ISO-8601; EndTime nil сериализуется в null.
// Hashtags и Modifiers передаются JSON-строками с обёртками (так ждёт сервер).
type EventInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CategoryID  string  `json:"category_id"`
	Address     string  `json:"address"`
	StartTime   string  `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Hashtags    string  `json:"hashtags"`
	Modifiers   string  `json:"modifiers"`
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
	Photo       *string `json:"photo"`
	UserID      int     `json:"user_id"`
}

// SavedEvent — сохранённое событие, как его возвращает сервер.
// Hashtags и Modifiers приходят теми же JSON-строками, что и отправлялись.
type SavedEvent struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CategoryID  string  `json:"category_id"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	StartTime   string  `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Hashtags    string  `json:"hashtags"`
	Modifiers   string  `json:"modifiers"`
	Photo       string  `json:"photo"`
	UserID      int     `json:"user_id"`
}
