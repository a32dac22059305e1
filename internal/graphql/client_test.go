package graphql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvneilson/neighborhood-chef-fe/internal/models"
)

func TestCreateEvent(t *testing.T) {
	var gotAuth string
	var gotReq request

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"addEvent":{"id":77,"title":"Плов во дворе","user_id":7}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token-123")
	ev, err := c.CreateEvent(context.Background(), models.EventInput{Title: "Плов во дворе", UserID: 7})
	require.NoError(t, err)

	assert.Equal(t, "token-123", gotAuth)
	assert.True(t, strings.Contains(gotReq.Query, "addEvent"))
	assert.Equal(t, 77, ev.ID)
	assert.Equal(t, "Плов во дворе", ev.Title)
}

func TestUpdateEvent(t *testing.T) {
	var gotReq request

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"data":{"updateEvent":{"id":42,"title":"Новое название"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	ev, err := c.UpdateEvent(context.Background(), 42, models.EventInput{Title: "Новое название"})
	require.NoError(t, err)

	assert.True(t, strings.Contains(gotReq.Query, "updateEvent"))
	assert.EqualValues(t, 42, gotReq.Variables["id"])
	assert.Equal(t, 42, ev.ID)
}

func TestEventsByUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"getUserEvents":[{"id":1,"title":"Ужин"},{"id":2,"title":"Бранч"}]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	events, err := c.EventsByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Ужин", events[0].Title)
}

func TestDo_GraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"событие не найдено"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.EventByID(context.Background(), 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "событие не найдено")
}

// Ответ вообще без data и без errors — ошибка должна называть причину,
// а не отдавать сырое "unexpected end of JSON input" из json.Unmarshal.
func TestDo_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.EventByID(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "пустой ответ")
}

func TestDo_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.EventByID(context.Background(), 1)
	assert.Error(t, err)
}
