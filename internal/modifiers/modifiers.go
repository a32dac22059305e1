package modifiers

import (
	"encoding/json"

	"github.com/bvneilson/neighborhood-chef-fe/internal/models"
)

// Entry — один модификатор события: идентификатор, подпись, иконка
// и флаг «выбран». Иконка нужна только для показа и на сервер не уходит.
type Entry struct {
	ID     int
	Title  string
	Icon   string
	Active bool
}

// catalogTemplate — канонический каталог модификаторов. Порядок фиксирован.
// Шаблон общий для всех сессий, поэтому менять его нельзя ни при каких
// условиях — каждая сессия работает только со своей копией из Catalog().
var catalogTemplate = []Entry{
	{ID: 1, Title: "Kid-Friendly", Icon: "child_care"},
	{ID: 2, Title: "Pet-Friendly", Icon: "pets"},
	{ID: 3, Title: "Outdoor", Icon: "nature_people"},
	{ID: 4, Title: "Vegetarian", Icon: "local_florist"},
	{ID: 5, Title: "Vegan", Icon: "spa"},
	{ID: 6, Title: "Gluten-Free", Icon: "bakery_dining"},
}

// Catalog возвращает свежую копию каталога, все модификаторы не выбраны.
func Catalog() []Entry {
	out := make([]Entry, len(catalogTemplate))
	copy(out, catalogTemplate)
	return out
}

// Restore строит копию каталога, где выбраны ровно те модификаторы,
// чьи идентификаторы отмечены активными в сохранённом событии.
// Порядок и длина — как в каталоге. Шаблон не трогаем.
func Restore(saved []models.EventModifier) []Entry {
	active := make(map[int]bool, len(saved))
	for _, m := range saved {
		if m.Active {
			active[m.ID] = true
		}
	}
	out := Catalog()
	for i := range out {
		out[i].Active = active[out[i].ID]
	}
	return out
}

// Reset снимает выбор со всех модификаторов сессионной копии.
func Reset(list []Entry) {
	for i := range list {
		list[i].Active = false
	}
}

// Toggle переключает модификатор с данным ID. Возвращает false, если
// такого ID в списке нет.
func Toggle(list []Entry, id int) bool {
	for i := range list {
		if list[i].ID == id {
			list[i].Active = !list[i].Active
			return true
		}
	}
	return false
}

// WireSubset отбирает выбранные модификаторы и отбрасывает иконки —
// на сервер уходят только данные.
func WireSubset(list []Entry) []models.EventModifier {
	out := make([]models.EventModifier, 0, len(list))
	for _, e := range list {
		if e.Active {
			out = append(out, models.EventModifier{ID: e.ID, Title: e.Title, Active: true})
		}
	}
	return out
}

// WireJSON сериализует выбранные модификаторы в строку-обёртку
// {"modifiers":[...]} для передачи на сервер.
func WireJSON(list []Entry) (string, error) {
	b, err := json.Marshal(models.ModifiersPayload{Modifiers: WireSubset(list)})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
