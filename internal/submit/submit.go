package submit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bvneilson/neighborhood-chef-fe/internal/hashtags"
	"github.com/bvneilson/neighborhood-chef-fe/internal/models"
	"github.com/bvneilson/neighborhood-chef-fe/internal/modifiers"
	"github.com/bvneilson/neighborhood-chef-fe/internal/timeconv"
	"github.com/bvneilson/neighborhood-chef-fe/internal/wizard"
)

// ErrIncomplete — в черновике не хватает обязательных полей.
// Сборка падает до любого сетевого вызова: неполные данные не отправляем.
var ErrIncomplete = errors.New("событие заполнено не полностью")

// ErrEndBeforeStart — время окончания не позже времени начала.
var ErrEndBeforeStart = errors.New("окончание должно быть позже начала")

// EventMutator — порт к удалённому сервису событий. Реализуется
// GraphQL-клиентом, в тестах подменяется моком.
type EventMutator interface {
	CreateEvent(ctx context.Context, in models.EventInput) (*models.SavedEvent, error)
	UpdateEvent(ctx context.Context, id int, in models.EventInput) (*models.SavedEvent, error)
}

// Submitter собирает полезную нагрузку из сессии мастера и отправляет
// мутацию создания либо обновления.
type Submitter struct {
	api EventMutator
}

func NewSubmitter(api EventMutator) *Submitter {
	return &Submitter{api: api}
}

// BuildInput собирает EventInput из сессии. Валидация жёсткая: без
// названия, даты, времени начала и категории сборка не проходит,
// что бы там ни проверяли поля формы.
func BuildInput(s *wizard.Session, userID int) (models.EventInput, error) {
	d := s.Draft()

	switch {
	case d.Title == "":
		return models.EventInput{}, fmt.Errorf("%w: нет названия", ErrIncomplete)
	case d.Date == "":
		return models.EventInput{}, fmt.Errorf("%w: нет даты", ErrIncomplete)
	case d.StartTime == "":
		return models.EventInput{}, fmt.Errorf("%w: нет времени начала", ErrIncomplete)
	case d.CategoryID == "":
		return models.EventInput{}, fmt.Errorf("%w: нет категории", ErrIncomplete)
	}

	startISO, err := timeconv.ToWire(d.Date, d.StartTime)
	if err != nil {
		return models.EventInput{}, err
	}

	// Окончание опционально; если его нет, на сервер уходит null,
	// а не нулевая метка времени.
	var endISO *string
	if d.EndTime != "" {
		iso, err := timeconv.ToWire(d.Date, d.EndTime)
		if err != nil {
			return models.EventInput{}, err
		}
		start, _ := time.Parse(time.RFC3339, startISO)
		end, _ := time.Parse(time.RFC3339, iso)
		if !end.After(start) {
			return models.EventInput{}, ErrEndBeforeStart
		}
		endISO = &iso
	}

	tagsJSON, err := hashtags.Wrap(s.Hashtags())
	if err != nil {
		return models.EventInput{}, fmt.Errorf("сериализация хэштегов: %w", err)
	}
	modsJSON, err := modifiers.WireJSON(s.Modifiers())
	if err != nil {
		return models.EventInput{}, fmt.Errorf("сериализация модификаторов: %w", err)
	}

	var photo *string
	if d.Photo != "" && d.Photo != models.PhotoNone {
		p := d.Photo
		photo = &p
	}

	return models.EventInput{
		Title:       d.Title,
		Description: d.Description,
		CategoryID:  d.CategoryID,
		Address:     d.Address,
		StartTime:   startISO,
		EndTime:     endISO,
		Hashtags:    tagsJSON,
		Modifiers:   modsJSON,
		Longitude:   d.Longitude,
		Latitude:    d.Latitude,
		Photo:       photo,
		UserID:      userID,
	}, nil
}

// Submit выполняет отправку: резервирует сессию (вторая отправка во время
// первой отклоняется), собирает нагрузку, выбирает createEvent либо
// updateEvent и интерпретирует результат. При успехе прогоняет успешный
// сценарий сессии и возвращает событие, каким его сохранил сервер.
// При любой ошибке сессия остаётся в исходном состоянии.
func (sb *Submitter) Submit(ctx context.Context, s *wizard.Session, userID int) (*models.SavedEvent, error) {
	if err := s.BeginSubmit(); err != nil {
		return nil, err
	}

	in, err := BuildInput(s, userID)
	if err != nil {
		s.FinishSubmit(false)
		return nil, err
	}

	var ev *models.SavedEvent
	if s.Editing() {
		ev, err = sb.api.UpdateEvent(ctx, s.SavedID(), in)
	} else {
		ev, err = sb.api.CreateEvent(ctx, in)
	}
	if err != nil {
		s.FinishSubmit(false)
		return nil, fmt.Errorf("отправка события: %w", err)
	}

	s.FinishSubmit(true)
	return ev, nil
}
