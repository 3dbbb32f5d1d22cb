package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wrestlepro/wrestlepro/internal/domain/event"
	"github.com/wrestlepro/wrestlepro/internal/domain/registration"
	"github.com/wrestlepro/wrestlepro/internal/observability"
)

type RegistrationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRegistrationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *RegistrationsRepo {
	return &RegistrationsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *RegistrationsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (repo *RegistrationsRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return repo.pool.BeginTx(ctx, pgx.TxOptions{})
}

const registrationColumns = `id, event_id, user_id, first_name, last_name, email, birth_year, weight_class, club, country, division, belt, status, external_ref, created_at, updated_at`

func scanRegistration(row pgx.Row, r *registration.Registration) error {
	return row.Scan(
		&r.ID,
		&r.EventID,
		&r.UserID,
		&r.Participant.FirstName,
		&r.Participant.LastName,
		&r.Participant.Email,
		&r.Participant.BirthYear,
		&r.Participant.WeightClass,
		&r.Participant.Club,
		&r.Participant.Country,
		&r.Division,
		&r.Belt,
		&r.Status,
		&r.ExternalRef,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
}

// CreateTx runs the duplicate check, capacity lock and insert inside the
// caller's transaction so the confirmation job can commit atomically with
// the registration row.
func (repo *RegistrationsRepo) CreateTx(ctx context.Context, tx pgx.Tx, req registration.CreateRegistrationRequest) (reg registration.Registration, err error) {
	// duplicate participant email per event

	var exists bool

	err = repo.observe("registrations.create_tx.duplicate_check", func() error {
		return tx.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM registrations
			WHERE event_id = $1 AND email = $2
		)`, req.EventID, req.Participant.Email).Scan(&exists)
	})

	if err != nil {
		return
	}

	if exists {
		err = registration.ErrAlreadyRegistered
		return
	}

	// lock event row + check capacity
	var capacity int
	var current int
	err = repo.observe("registrations.create_tx.capacity_lock", func() error {
		return tx.QueryRow(ctx, `
		SELECT e.capacity,
			(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id) AS current
		FROM events e
		WHERE e.id = $1
		FOR UPDATE
	`, req.EventID).Scan(&capacity, &current)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = event.ErrNotFound
		}

		return
	}

	if current >= capacity {
		err = registration.ErrEventFull
		return
	}

	reg = registration.NewFromCreateRequest(req)

	err = repo.observe("registrations.create_tx.insert", func() error {
		_, e := tx.Exec(ctx, `
		INSERT INTO registrations (`+registrationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`, reg.ID, reg.EventID, reg.UserID,
			reg.Participant.FirstName, reg.Participant.LastName, reg.Participant.Email,
			reg.Participant.BirthYear, reg.Participant.WeightClass, reg.Participant.Club, reg.Participant.Country,
			reg.Division, reg.Belt, string(reg.Status), reg.ExternalRef, reg.CreatedAt, reg.UpdatedAt)
		return e
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "registrations_event_email_uniq" {
			err = registration.ErrAlreadyRegistered
			return
		}
		return
	}

	return
}

func (repo *RegistrationsRepo) ListByEvent(ctx context.Context, eventID string) (regs []registration.Registration, err error) {
	var rows pgx.Rows

	err = repo.observe("registrations.list_by_event", func() error {
		var qerr error
		rows, qerr = repo.pool.Query(ctx,
			`SELECT `+registrationColumns+`
			 FROM registrations
			 WHERE event_id = $1
			 ORDER BY created_at ASC, id ASC`,
			eventID,
		)
		return qerr
	})

	if err != nil {
		return
	}

	defer rows.Close()

	regs = make([]registration.Registration, 0)

	for rows.Next() {
		var r registration.Registration

		if e := scanRegistration(rows, &r); e != nil {
			err = e
			return
		}
		regs = append(regs, r)
	}

	if e := rows.Err(); e != nil {
		err = e
		return
	}

	// a 404 when the event itself does not exist

	if len(regs) == 0 {
		var dummy string

		err = repo.observe("registrations.list_by_event.check_event_exists", func() error {
			return repo.pool.QueryRow(ctx, `SELECT id FROM events WHERE id = $1`, eventID).Scan(&dummy)
		})

		if errors.Is(err, pgx.ErrNoRows) {
			err = event.ErrNotFound
			return
		}

		if err != nil {
			return
		}
	}

	return
}

func (repo *RegistrationsRepo) GetByID(ctx context.Context, eventID, registrationID string) (registration.Registration, error) {
	var r registration.Registration

	err := repo.observe("registrations.get_by_id", func() error {
		return scanRegistration(repo.pool.QueryRow(ctx,
			`SELECT `+registrationColumns+`
			 FROM registrations
			 WHERE id = $1 AND event_id = $2`,
			registrationID, eventID,
		), &r)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return registration.Registration{}, registration.ErrNotFound
		}

		return registration.Registration{}, err
	}

	return r, nil
}
