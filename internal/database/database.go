package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect открывает пул соединений с PostgreSQL по строке подключения.
// Пул, а не одиночное соединение: к базе ходят и обработчики бота,
// и фоновое напоминание о незавершённых черновиках.
func Connect(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("pgx connect error: %w", err)
	}

	// Проверка связи
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgx ping error: %w", err)
	}

	return pool, nil
}
