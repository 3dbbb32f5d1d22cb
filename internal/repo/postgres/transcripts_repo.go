package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wrestlepro/wrestlepro/internal/chat"
	"github.com/wrestlepro/wrestlepro/internal/observability"
)

type TranscriptsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTranscriptsRepo(pool *pgxpool.Pool, prom *observability.Prom) *TranscriptsRepo {
	return &TranscriptsRepo{pool: pool, prom: prom}
}

func (r *TranscriptsRepo) Insert(ctx context.Context, t chat.Transcript) error {
	fn := func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO chat_transcripts (id, user_message, response, created_at)
			 VALUES ($1,$2,$3,$4)`,
			t.ID, t.UserMessage, t.Response, t.CreatedAt,
		)
		return err
	}

	if r.prom != nil {
		return r.prom.ObserveDB("chat_transcripts.insert", fn)
	}
	return fn()
}
