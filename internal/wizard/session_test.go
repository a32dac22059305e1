package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvneilson/neighborhood-chef-fe/internal/models"
	"github.com/bvneilson/neighborhood-chef-fe/internal/modifiers"
	"github.com/bvneilson/neighborhood-chef-fe/internal/timeconv"
)

func strPtr(s string) *string { return &s }

// savedEvent собирает корректное сохранённое событие. Метки времени
// строим через ToWire, чтобы тест не зависел от зоны машины.
func savedEvent(t *testing.T) models.SavedEvent {
	t.Helper()
	start, err := timeconv.ToWire("2025-07-04", "18:45")
	require.NoError(t, err)
	end, err := timeconv.ToWire("2025-07-04", "21:00")
	require.NoError(t, err)

	return models.SavedEvent{
		ID:          42,
		Title:       "Плов во дворе",
		Description: "Готовим вместе",
		CategoryID:  "4",
		Address:     "ул. Абрикосовая, 15",
		Latitude:    41.31,
		Longitude:   69.24,
		StartTime:   start,
		EndTime:     strPtr(end),
		Hashtags:    `{"hashtags":["плов","двор"]}`,
		Modifiers:   `{"modifiers":[{"id":2,"title":"Pet-Friendly","active":true},{"id":5,"title":"Vegan","active":true}]}`,
		Photo:       "photo-ref-1",
		UserID:      7,
	}
}

func TestNew(t *testing.T) {
	s := New()
	assert.Equal(t, FirstPage, s.Page())
	assert.False(t, s.Editing())
	assert.Empty(t, s.Hashtags())
	for _, m := range s.Modifiers() {
		assert.False(t, m.Active)
	}
}

func TestBeginEdit_Hydration(t *testing.T) {
	s := New()
	require.NoError(t, s.BeginEdit(savedEvent(t)))

	assert.True(t, s.Editing())
	assert.Equal(t, 42, s.SavedID())
	assert.Equal(t, FirstPage, s.Page())

	d := s.Draft()
	assert.Equal(t, "Плов во дворе", d.Title)
	assert.Equal(t, "2025-07-04", d.Date)
	assert.Equal(t, "18:45", d.StartTime)
	assert.Equal(t, "21:00", d.EndTime)
	assert.Equal(t, "4", d.CategoryID)
	assert.Equal(t, "photo-ref-1", d.Photo)

	mods := s.Modifiers()
	require.Len(t, mods, 6)
	for _, m := range mods {
		assert.Equal(t, m.ID == 2 || m.ID == 5, m.Active, "ID %d", m.ID)
	}
	assert.Equal(t, []string{"плов", "двор"}, s.Hashtags())
}

func TestBeginEdit_Idempotent(t *testing.T) {
	ev := savedEvent(t)

	s := New()
	require.NoError(t, s.BeginEdit(ev))
	first := s.Snapshot()

	require.NoError(t, s.BeginEdit(ev))
	assert.Equal(t, first, s.Snapshot())
}

func TestBeginEdit_PhotoSentinel(t *testing.T) {
	ev := savedEvent(t)
	ev.Photo = models.PhotoNone

	s := New()
	require.NoError(t, s.BeginEdit(ev))
	assert.Empty(t, s.Draft().Photo)
}

func TestBeginEdit_NoEndTime(t *testing.T) {
	ev := savedEvent(t)
	ev.EndTime = nil

	s := New()
	require.NoError(t, s.BeginEdit(ev))
	assert.Empty(t, s.Draft().EndTime)
}

func TestBeginEdit_MalformedEvent(t *testing.T) {
	cases := map[string]func(*models.SavedEvent){
		"без идентификатора": func(ev *models.SavedEvent) { ev.ID = 0 },
		"без названия":       func(ev *models.SavedEvent) { ev.Title = "" },
		"без категории":      func(ev *models.SavedEvent) { ev.CategoryID = "" },
		"битое время":        func(ev *models.SavedEvent) { ev.StartTime = "вчера" },
		"битые модификаторы": func(ev *models.SavedEvent) { ev.Modifiers = "{" },
		"битые хэштеги":      func(ev *models.SavedEvent) { ev.Hashtags = "{" },
	}

	for name, corrupt := range cases {
		ev := savedEvent(t)
		corrupt(&ev)

		s := New()
		err := s.BeginEdit(ev)

		var hydErr *HydrationError
		require.ErrorAs(t, err, &hydErr, name)

		// Частично заполненной формы не остаётся.
		assert.False(t, s.Editing(), name)
		assert.Equal(t, Draft{}, s.Draft(), name)
	}
}

func TestEnd_Teardown(t *testing.T) {
	s := New()
	require.NoError(t, s.BeginEdit(savedEvent(t)))
	require.NoError(t, s.SetPage(3))

	s.End()

	assert.True(t, s.Ended())
	assert.Equal(t, FirstPage, s.Page())
	assert.False(t, s.Editing())
	assert.Zero(t, s.SavedID())
	assert.Empty(t, s.Hashtags())
	for _, m := range s.Modifiers() {
		assert.False(t, m.Active)
	}

	// Повторный вызов безопасен: teardown выполняется один раз.
	s.End()
	assert.True(t, s.Ended())
}

// Гидрация, teardown и новая сессия создания: чужой выбор модификаторов
// не должен протечь в свежую сессию.
func TestNoLeakAcrossSessions(t *testing.T) {
	edit := New()
	require.NoError(t, edit.BeginEdit(savedEvent(t)))
	edit.End()

	create := New()
	for _, m := range create.Modifiers() {
		assert.False(t, m.Active)
	}
	for _, m := range modifiers.Catalog() {
		assert.False(t, m.Active)
	}
}

func TestSetPage(t *testing.T) {
	s := New()
	require.NoError(t, s.SetPage(3))
	assert.Equal(t, 3, s.Page())

	assert.Error(t, s.SetPage(0))
	assert.Error(t, s.SetPage(5))
	assert.Equal(t, 3, s.Page())
}

func TestSubmitGuard(t *testing.T) {
	s := New()
	require.NoError(t, s.BeginSubmit())

	// Вторая отправка, пока идёт первая, отклоняется.
	assert.ErrorIs(t, s.BeginSubmit(), ErrSubmitInFlight)

	// После неудачи можно пробовать снова.
	s.FinishSubmit(false)
	assert.NoError(t, s.BeginSubmit())
}

func TestFinishSubmit_Success(t *testing.T) {
	s := New()
	s.SetTitle("Ужин")
	s.SetPhoto("photo-ref")
	s.AddHashtag("ужин")
	s.ToggleModifier(3)
	require.NoError(t, s.SetPage(3))

	require.NoError(t, s.BeginSubmit())
	s.FinishSubmit(true)

	assert.Equal(t, LastPage, s.Page())
	assert.Empty(t, s.Hashtags())
	assert.Empty(t, s.Draft().Photo)
	for _, m := range s.Modifiers() {
		assert.False(t, m.Active)
	}
}

func TestFinishSubmit_FailureKeepsState(t *testing.T) {
	s := New()
	require.NoError(t, s.BeginEdit(savedEvent(t)))
	require.NoError(t, s.SetPage(3))
	before := s.Snapshot()

	require.NoError(t, s.BeginSubmit())
	s.FinishSubmit(false)

	assert.Equal(t, before, s.Snapshot())
}

func TestSnapshot_RoundTrip(t *testing.T) {
	s := New()
	require.NoError(t, s.BeginEdit(savedEvent(t)))
	require.NoError(t, s.SetPage(2))

	restored := FromSnapshot(s.Snapshot())
	assert.Equal(t, s.Snapshot(), restored.Snapshot())
	assert.Equal(t, 2, restored.Page())
	assert.True(t, restored.Editing())
}
