package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wrestlepro/wrestlepro/internal/domain/event"
	"github.com/wrestlepro/wrestlepro/internal/observability"
)

type EventsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEventsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{pool: pool, prom: prom}
}

func (r *EventsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const eventColumns = `id, external_id, title, description, location, rule_set, organizer, start_at, end_at, capacity, published, created_at, updated_at`

func scanEvent(row pgx.Row, e *event.Event) error {
	return row.Scan(
		&e.ID,
		&e.ExternalID,
		&e.Title,
		&e.Description,
		&e.Location,
		&e.RuleSet,
		&e.Organizer,
		&e.StartAt,
		&e.EndAt,
		&e.Capacity,
		&e.Published,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
}

func (r *EventsRepo) Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	e := event.NewFromCreateRequest(req)

	err := r.observe("events.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO events(`+eventColumns+`)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			e.ID, e.ExternalID, e.Title, e.Description, e.Location, e.RuleSet, e.Organizer,
			e.StartAt, e.EndAt, e.Capacity, e.Published, e.CreatedAt, e.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, error) {
	baseQuery := `SELECT ` + eventColumns + ` FROM events`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if filter.RuleSet != nil {
		conds = append(conds, fmt.Sprintf("rule_set = $%d", argsPosition))
		args = append(args, *filter.RuleSet)
		argsPosition++
	}

	if filter.Published != nil {
		conds = append(conds, fmt.Sprintf("published = $%d", argsPosition))
		args = append(args, *filter.Published)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering
	query += fmt.Sprintf(" ORDER BY start_at ASC, id ASC LIMIT $%d", argsPosition)
	args = append(args, filter.Limit)

	var rows pgx.Rows
	err := r.observe("events.list", func() error {
		var qerr error
		rows, qerr = r.pool.Query(ctx, query, args...)
		return qerr
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	output := make([]event.Event, 0, filter.Limit)

	for rows.Next() {
		var e event.Event

		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}

		output = append(output, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return output, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	var e event.Event

	err := r.observe("events.get_by_id", func() error {
		return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id), &e)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error) {
	var e event.Event

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	err := r.observe("events.update", func() error {
		return scanEvent(r.pool.QueryRow(
			ctx,
			`UPDATE events
				SET title = $2,
						description = $3,
						location = $4,
						rule_set = $5,
						organizer = $6,
						start_at = $7,
						end_at = $8,
						capacity = $9,
						published = $10,
						updated_at = NOW()
			WHERE id = $1
			RETURNING `+eventColumns,
			id,
			req.Title,
			req.Description,
			req.Location,
			req.RuleSet,
			req.Organizer,
			req.StartAt,
			req.EndAt,
			req.Capacity,
			published,
		), &e)
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		// if it is any other type of error
		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	var rowsAffected int64

	err := r.observe("events.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
		rowsAffected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if rowsAffected == 0 {
		return event.ErrNotFound
	}

	return nil
}
