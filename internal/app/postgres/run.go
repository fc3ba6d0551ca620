package postgres

import (
	"context"

	"github.com/beldeveloper/go-errors-context"
	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/internal/app/errtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// NewRun creates a new instance of the repository.
func NewRun(conn *pgxpool.Pool) app.RunRepo {
	return Run{conn: conn}
}

// Run implements a repository.
type Run struct {
	conn *pgxpool.Pool
}

// FindAll returns all runs, newest first.
func (r Run) FindAll(ctx context.Context) ([]app.Run, error) {
	q := `SELECT "id", "project_id", "trigger", "ref", "hash", "status", "error_msg", "created_at", "finished_at"
		FROM "runs" ORDER BY "id" DESC`
	rows, err := r.conn.Query(ctx, q)
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{Path: "postgres.Run.FindAll.Query"})
	}
	defer rows.Close()
	res := make([]app.Run, 0)
	var run app.Run
	for rows.Next() {
		err = rows.Scan(&run.ID, &run.ProjectID, &run.Trigger, &run.Ref, &run.Hash, &run.Status,
			&run.ErrorMsg, &run.CreatedAt, &run.FinishedAt)
		if err != nil {
			return nil, errors.WrapContext(err, errors.Context{Path: "postgres.Run.FindAll.Scan"})
		}
		res = append(res, run)
	}
	return res, nil
}

// FindByID returns the one run with the specific ID.
func (r Run) FindByID(ctx context.Context, id uint64) (app.Run, error) {
	var run app.Run
	q := `SELECT "id", "project_id", "trigger", "ref", "hash", "status", "error_msg", "created_at", "finished_at"
		FROM "runs" WHERE "id" = $1`
	err := r.conn.QueryRow(ctx, q, id).Scan(&run.ID, &run.ProjectID, &run.Trigger, &run.Ref, &run.Hash,
		&run.Status, &run.ErrorMsg, &run.CreatedAt, &run.FinishedAt)
	if err == pgx.ErrNoRows {
		err = errtype.ErrNotFound
	}
	return run, errors.WrapContext(err, errors.Context{
		Path:   "postgres.Run.FindByID.Scan",
		Params: errors.Params{"run": id},
	})
}

// FindEnqueued returns the oldest run that is enqueued or in running status
// (the latter means the process was interrupted earlier).
func (r Run) FindEnqueued(ctx context.Context) (app.Run, error) {
	var run app.Run
	q := `SELECT "id", "project_id", "trigger", "ref", "hash", "status", "error_msg", "created_at", "finished_at"
		FROM "runs" WHERE "status" IN ($1, $2) ORDER BY "id" LIMIT 1`
	err := r.conn.QueryRow(ctx, q, app.RunStatusEnqueued, app.RunStatusRunning).
		Scan(&run.ID, &run.ProjectID, &run.Trigger, &run.Ref, &run.Hash, &run.Status,
			&run.ErrorMsg, &run.CreatedAt, &run.FinishedAt)
	if err == pgx.ErrNoRows {
		err = errtype.ErrNotFound
	}
	return run, errors.WrapContext(err, errors.Context{Path: "postgres.Run.FindEnqueued.Scan"})
}

// Add saves a new run.
func (r Run) Add(ctx context.Context, run app.Run) (app.Run, error) {
	q := `INSERT INTO "runs" ("project_id", "trigger", "ref", "hash", "status", "error_msg", "created_at", "finished_at")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING "id"`
	err := r.conn.QueryRow(ctx, q, run.ProjectID, run.Trigger, run.Ref, run.Hash, run.Status,
		run.ErrorMsg, run.CreatedAt, run.FinishedAt).Scan(&run.ID)
	if err != nil {
		return run, errors.WrapContext(err, errors.Context{Path: "postgres.Run.Add.Scan"})
	}
	return run, nil
}

// Update modifies a specific run.
func (r Run) Update(ctx context.Context, run app.Run) (app.Run, error) {
	q := `UPDATE "runs" SET "status" = $2, "error_msg" = $3, "finished_at" = $4 WHERE "id" = $1`
	_, err := r.conn.Exec(ctx, q, run.ID, run.Status, run.ErrorMsg, run.FinishedAt)
	return run, errors.WrapContext(err, errors.Context{
		Path:   "postgres.Run.Update.Exec",
		Params: errors.Params{"run": run.ID, "status": run.Status},
	})
}

// UpdateStatus modifies the run status.
func (r Run) UpdateStatus(ctx context.Context, run app.Run) error {
	q := `UPDATE "runs" SET "status" = $2 WHERE "id" = $1`
	_, err := r.conn.Exec(ctx, q, run.ID, run.Status)
	return errors.WrapContext(err, errors.Context{
		Path:   "postgres.Run.UpdateStatus.Exec",
		Params: errors.Params{"run": run.ID, "status": run.Status},
	})
}
