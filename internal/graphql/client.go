package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bvneilson/neighborhood-chef-fe/internal/models"
)

// Client — тонкий клиент GraphQL-эндпоинта сервиса событий.
// Все операции — обычный POST {query, variables} на один URL.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
}

// NewClient создаёт клиент. token уходит в заголовок Authorization
// каждого запроса (его выдаёт внешний слой аутентификации).
func NewClient(url, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		url:        url,
		token:      token,
	}
}

const eventFields = `
id
title
description
category_id
address
startTime
endTime
hashtags
modifiers
latitude
longitude
photo
user_id
`

var (
	addEventMutation = fmt.Sprintf(`mutation AddEvent($input: EventInput!) {
  addEvent(input: $input) {%s}
}`, eventFields)

	updateEventMutation = fmt.Sprintf(`mutation UpdateEvent($id: ID!, $input: EventInput!) {
  updateEvent(id: $id, input: $input) {%s}
}`, eventFields)

	eventByIDQuery = fmt.Sprintf(`query GetEventByID($id: ID!) {
  getEventById(id: $id) {%s}
}`, eventFields)

	eventsByUserQuery = fmt.Sprintf(`query GetUserEvents($id: ID!) {
  getUserEvents(user_id: $id) {%s}
}`, eventFields)
)

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

// do выполняет запрос и раскладывает поле data в out.
// Ошибки GraphQL (поле errors) превращаются в обычную ошибку Go.
func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("сериализация запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос к %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("сервер ответил %s", resp.Status)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []gqlError      `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("разбор ответа: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("ошибка сервера: %s", envelope.Errors[0].Message)
	}
	if out != nil {
		// Без errors и без data тоже бывает: json.Unmarshal на пустом
		// RawMessage вернул бы невнятное "unexpected end of JSON input".
		if len(envelope.Data) == 0 {
			return fmt.Errorf("пустой ответ сервера: нет ни data, ни errors")
		}
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("разбор данных ответа: %w", err)
		}
	}
	return nil
}

// CreateEvent выполняет мутацию addEvent и возвращает созданное событие
// (с идентификатором, присвоенным сервером).
func (c *Client) CreateEvent(ctx context.Context, in models.EventInput) (*models.SavedEvent, error) {
	var resp struct {
		Event models.SavedEvent `json:"addEvent"`
	}
	if err := c.do(ctx, addEventMutation, map[string]any{"input": in}, &resp); err != nil {
		return nil, err
	}
	return &resp.Event, nil
}

// UpdateEvent выполняет мутацию updateEvent по идентификатору события.
func (c *Client) UpdateEvent(ctx context.Context, id int, in models.EventInput) (*models.SavedEvent, error) {
	var resp struct {
		Event models.SavedEvent `json:"updateEvent"`
	}
	vars := map[string]any{"id": id, "input": in}
	if err := c.do(ctx, updateEventMutation, vars, &resp); err != nil {
		return nil, err
	}
	return &resp.Event, nil
}

// EventByID возвращает сохранённое событие для входа в режим редактирования.
func (c *Client) EventByID(ctx context.Context, id int) (*models.SavedEvent, error) {
	var resp struct {
		Event models.SavedEvent `json:"getEventById"`
	}
	if err := c.do(ctx, eventByIDQuery, map[string]any{"id": id}, &resp); err != nil {
		return nil, err
	}
	return &resp.Event, nil
}

// EventsByUser возвращает события пользователя — из них выбирают,
// что редактировать.
func (c *Client) EventsByUser(ctx context.Context, userID int) ([]models.SavedEvent, error) {
	var resp struct {
		Events []models.SavedEvent `json:"getUserEvents"`
	}
	if err := c.do(ctx, eventsByUserQuery, map[string]any{"id": userID}, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}
