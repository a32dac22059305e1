package modifiers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvneilson/neighborhood-chef-fe/internal/models"
)

func TestCatalog_FreshCopy(t *testing.T) {
	first := Catalog()
	first[0].Active = true
	first[0].Title = "испорчено"

	// Другая сессия не должна видеть чужие изменения.
	second := Catalog()
	assert.False(t, second[0].Active)
	assert.Equal(t, "Kid-Friendly", second[0].Title)
}

func TestRestore_SavedSubset(t *testing.T) {
	saved := []models.EventModifier{
		{ID: 2, Title: "Pet-Friendly", Active: true},
		{ID: 5, Title: "Vegan", Active: true},
	}

	out := Restore(saved)
	require.Len(t, out, 6)
	for i, e := range out {
		// Порядок каталога сохраняется.
		assert.Equal(t, i+1, e.ID)
		assert.Equal(t, e.ID == 2 || e.ID == 5, e.Active, "ID %d", e.ID)
	}

	// Каталог остался нетронутым.
	for _, e := range Catalog() {
		assert.False(t, e.Active)
	}
}

func TestRestore_IgnoresInactiveAndUnknown(t *testing.T) {
	saved := []models.EventModifier{
		{ID: 1, Active: false},
		{ID: 99, Active: true},
	}
	for _, e := range Restore(saved) {
		assert.False(t, e.Active)
	}
}

func TestRestore_Idempotent(t *testing.T) {
	saved := []models.EventModifier{{ID: 3, Active: true}}

	first := Restore(saved)
	second := Restore(saved)
	assert.Equal(t, first, second)

	// Результаты независимы друг от друга.
	first[0].Active = true
	assert.False(t, second[0].Active)
}

func TestToggle(t *testing.T) {
	list := Catalog()
	require.True(t, Toggle(list, 3))
	assert.True(t, list[2].Active)
	require.True(t, Toggle(list, 3))
	assert.False(t, list[2].Active)
	assert.False(t, Toggle(list, 42))
}

func TestWireSubset_ActiveOnly(t *testing.T) {
	list := Catalog()
	Toggle(list, 2)
	Toggle(list, 5)

	wire := WireSubset(list)
	require.Len(t, wire, 2)
	assert.Equal(t, 2, wire[0].ID)
	assert.Equal(t, 5, wire[1].ID)
	assert.True(t, wire[0].Active)
}

func TestWireJSON_StripsIcon(t *testing.T) {
	list := Catalog()
	Toggle(list, 1)

	s, err := WireJSON(list)
	require.NoError(t, err)

	// Иконка — не данные, на сервер не уходит.
	assert.False(t, strings.Contains(strings.ToLower(s), "icon"))

	var payload models.ModifiersPayload
	require.NoError(t, json.Unmarshal([]byte(s), &payload))
	require.Len(t, payload.Modifiers, 1)
	assert.Equal(t, models.EventModifier{ID: 1, Title: "Kid-Friendly", Active: true}, payload.Modifiers[0])
}

func TestWireJSON_EmptySelection(t *testing.T) {
	s, err := WireJSON(Catalog())
	require.NoError(t, err)
	assert.JSONEq(t, `{"modifiers":[]}`, s)
}

func TestReset(t *testing.T) {
	list := Catalog()
	Toggle(list, 1)
	Toggle(list, 6)

	Reset(list)
	for _, e := range list {
		assert.False(t, e.Active)
	}
}
