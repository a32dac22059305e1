package hashtags

import (
	"encoding/json"
	"strings"

	"github.com/bvneilson/neighborhood-chef-fe/internal/models"
)

// Пакет hashtags — упорядоченный список тегов события.
// Все операции возвращают новый срез, исходный не меняется.

// Append добавляет тег в конец списка. Пустые строки игнорируются.
func Append(list []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return list
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	return append(out, tag)
}

// Remove убирает первое вхождение тега.
func Remove(list []string, tag string) []string {
	out := make([]string, 0, len(list))
	removed := false
	for _, t := range list {
		if !removed && t == tag {
			removed = true
			continue
		}
		out = append(out, t)
	}
	return out
}

// Replace подменяет список целиком (копией переданного).
func Replace(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Wrap сериализует список в строку-обёртку {"hashtags":[...]} для сервера.
// Пустой список даёт {"hashtags":[]}, а не null.
func Wrap(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(models.HashtagsPayload{Hashtags: list})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
