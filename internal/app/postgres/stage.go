package postgres

import (
	"context"

	"github.com/beldeveloper/go-errors-context"
	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/jackc/pgx/v4/pgxpool"
)

// NewStage creates a new instance of the repository.
func NewStage(conn *pgxpool.Pool) app.StageRepo {
	return Stage{conn: conn}
}

// Stage implements a repository.
type Stage struct {
	conn *pgxpool.Pool
}

// FindByRun returns the stage rows of the specific run in execution order.
func (r Stage) FindByRun(ctx context.Context, runID uint64) ([]app.Stage, error) {
	q := `SELECT "id", "run_id", "name", "status", "log", "started_at", "finished_at"
		FROM "stages" WHERE "run_id" = $1 ORDER BY "id"`
	rows, err := r.conn.Query(ctx, q, runID)
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{
			Path:   "postgres.Stage.FindByRun.Query",
			Params: errors.Params{"run": runID},
		})
	}
	defer rows.Close()
	res := make([]app.Stage, 0)
	var s app.Stage
	for rows.Next() {
		err = rows.Scan(&s.ID, &s.RunID, &s.Name, &s.Status, &s.Log, &s.StartedAt, &s.FinishedAt)
		if err != nil {
			return nil, errors.WrapContext(err, errors.Context{
				Path:   "postgres.Stage.FindByRun.Scan",
				Params: errors.Params{"run": runID},
			})
		}
		res = append(res, s)
	}
	return res, nil
}

// Add saves a new stage row.
func (r Stage) Add(ctx context.Context, s app.Stage) (app.Stage, error) {
	q := `INSERT INTO "stages" ("run_id", "name", "status", "log", "started_at", "finished_at")
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING "id"`
	err := r.conn.QueryRow(ctx, q, s.RunID, s.Name, s.Status, s.Log, s.StartedAt, s.FinishedAt).Scan(&s.ID)
	if err != nil {
		return s, errors.WrapContext(err, errors.Context{
			Path:   "postgres.Stage.Add.Scan",
			Params: errors.Params{"run": s.RunID, "stage": s.Name},
		})
	}
	return s, nil
}

// Update modifies a specific stage row.
func (r Stage) Update(ctx context.Context, s app.Stage) (app.Stage, error) {
	q := `UPDATE "stages" SET "status" = $2, "log" = $3, "finished_at" = $4 WHERE "id" = $1`
	_, err := r.conn.Exec(ctx, q, s.ID, s.Status, s.Log, s.FinishedAt)
	return s, errors.WrapContext(err, errors.Context{
		Path:   "postgres.Stage.Update.Exec",
		Params: errors.Params{"stage": s.ID, "status": s.Status},
	})
}
