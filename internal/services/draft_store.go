package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Хранилище черновиков мастера и привязки чатов к пользователям сервиса.
//
// Ожидаемая схема:
//
//	CREATE TABLE chat_users (
//	    chat_id  BIGINT PRIMARY KEY,
//	    user_id  INTEGER NOT NULL
//	);
//
//	CREATE TABLE wizard_drafts (
//	    chat_id    BIGINT PRIMARY KEY,
//	    payload    JSONB NOT NULL,
//	    reminded   BOOLEAN NOT NULL DEFAULT false,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);

// ErrNoUser — чат не привязан к пользователю сервиса.
var ErrNoUser = errors.New("чат не привязан к пользователю")

// UserIDByChat возвращает идентификатор пользователя сервиса для чата.
// Идентификацию выполняет внешний сервис; здесь только чтение привязки.
func UserIDByChat(ctx context.Context, pool *pgxpool.Pool, chatID int64) (int, error) {
	var userID int
	err := pool.QueryRow(ctx, `
SELECT user_id FROM chat_users
WHERE chat_id = $1
`, chatID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNoUser
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// BindChat привязывает чат к пользователю сервиса (команда /bind).
func BindChat(ctx context.Context, pool *pgxpool.Pool, chatID int64, userID int) error {
	_, err := pool.Exec(ctx, `
INSERT INTO chat_users (chat_id, user_id)
VALUES ($1, $2)
ON CONFLICT (chat_id) DO UPDATE SET user_id = EXCLUDED.user_id
`, chatID, userID)
	return err
}

// SaveDraft сохраняет слепок незавершённого диалога мастера.
// Перезаписывает предыдущий и сбрасывает флаг напоминания.
func SaveDraft(ctx context.Context, pool *pgxpool.Pool, chatID int64, payload []byte) error {
	_, err := pool.Exec(ctx, `
INSERT INTO wizard_drafts (chat_id, payload, reminded, updated_at)
VALUES ($1, $2, false, now())
ON CONFLICT (chat_id) DO UPDATE
SET payload = EXCLUDED.payload, reminded = false, updated_at = now()
`, chatID, payload)
	return err
}

// LoadDraft возвращает сохранённый слепок или nil, если черновика нет.
func LoadDraft(ctx context.Context, pool *pgxpool.Pool, chatID int64) ([]byte, error) {
	var payload []byte
	err := pool.QueryRow(ctx, `
SELECT payload FROM wizard_drafts
WHERE chat_id = $1
`, chatID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// DeleteDraft удаляет черновик (teardown сессии или успешная отправка).
func DeleteDraft(ctx context.Context, pool *pgxpool.Pool, chatID int64) error {
	_, err := pool.Exec(ctx, `
DELETE FROM wizard_drafts
WHERE chat_id = $1
`, chatID)
	return err
}

// StaleDraftChats возвращает чаты с черновиками, которые не трогали
// дольше maxAge и о которых ещё не напоминали.
func StaleDraftChats(ctx context.Context, pool *pgxpool.Pool, now time.Time, maxAge time.Duration) ([]int64, error) {
	rows, err := pool.Query(ctx, `
SELECT chat_id FROM wizard_drafts
WHERE reminded = false
  AND updated_at < $1
`, now.Add(-maxAge))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, err
		}
		result = append(result, chatID)
	}
	return result, rows.Err()
}

// MarkDraftReminded помечает черновик, чтобы не напоминать дважды.
func MarkDraftReminded(ctx context.Context, pool *pgxpool.Pool, chatID int64) error {
	_, err := pool.Exec(ctx, `
UPDATE wizard_drafts
SET reminded = true
WHERE chat_id = $1
`, chatID)
	return err
}
