package wizard

import (
	"github.com/bvneilson/neighborhood-chef-fe/internal/models"
	"github.com/bvneilson/neighborhood-chef-fe/internal/modifiers"
)

// Snapshot — сериализуемый слепок сессии для хранения черновика в БД.
// Модификаторы храним только идентификаторами выбранных: каталог один
// и тот же, восстановление идёт через Restore.
type Snapshot struct {
	Page     int      `json:"page"`
	Editing  bool     `json:"editing"`
	SavedID  int      `json:"saved_id,omitempty"`
	Draft    Draft    `json:"draft"`
	Active   []int    `json:"active_modifiers,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// Snapshot снимает слепок текущего состояния сессии.
func (s *Session) Snapshot() Snapshot {
	var active []int
	for _, m := range s.mods {
		if m.Active {
			active = append(active, m.ID)
		}
	}
	tags := make([]string, len(s.tags))
	copy(tags, s.tags)
	return Snapshot{
		Page:     s.page,
		Editing:  s.editing,
		SavedID:  s.savedID,
		Draft:    s.draft,
		Active:   active,
		Hashtags: tags,
	}
}

// FromSnapshot восстанавливает сессию из слепка (продолжение прерванного
// диалога после перезапуска).
func FromSnapshot(sn Snapshot) *Session {
	saved := make([]models.EventModifier, 0, len(sn.Active))
	for _, id := range sn.Active {
		saved = append(saved, models.EventModifier{ID: id, Active: true})
	}
	page := sn.Page
	if page < FirstPage || page > LastPage {
		page = FirstPage
	}
	tags := make([]string, len(sn.Hashtags))
	copy(tags, sn.Hashtags)
	return &Session{
		page:    page,
		editing: sn.Editing,
		savedID: sn.SavedID,
		draft:   sn.Draft,
		mods:    modifiers.Restore(saved),
		tags:    tags,
	}
}
