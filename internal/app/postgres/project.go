package postgres

import (
	"context"

	"github.com/beldeveloper/go-errors-context"
	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/internal/app/errtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// NewProject creates a new instance of the repository.
func NewProject(conn *pgxpool.Pool) app.ProjectRepo {
	return Project{conn: conn}
}

// Project implements a repository.
type Project struct {
	conn *pgxpool.Pool
}

// FindAll returns all projects.
func (r Project) FindAll(ctx context.Context) ([]app.Project, error) {
	q := `SELECT "id", "type", "alias", "name", "status", "updated_at" FROM "projects" ORDER BY "alias"`
	rows, err := r.conn.Query(ctx, q)
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{Path: "postgres.Project.FindAll.Query"})
	}
	defer rows.Close()
	res := make([]app.Project, 0)
	var p app.Project
	for rows.Next() {
		err = rows.Scan(&p.ID, &p.Type, &p.Alias, &p.Name, &p.Status, &p.UpdatedAt)
		if err != nil {
			return nil, errors.WrapContext(err, errors.Context{Path: "postgres.Project.FindAll.Scan"})
		}
		res = append(res, p)
	}
	return res, nil
}

// FindByID returns the one project with the specific ID.
func (r Project) FindByID(ctx context.Context, id uint64) (app.Project, error) {
	var p app.Project
	q := `SELECT "id", "type", "alias", "name", "status", "updated_at" FROM "projects" WHERE "id" = $1`
	err := r.conn.QueryRow(ctx, q, id).Scan(&p.ID, &p.Type, &p.Alias, &p.Name, &p.Status, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		err = errtype.ErrNotFound
	}
	return p, errors.WrapContext(err, errors.Context{
		Path:   "postgres.Project.FindByID.Scan",
		Params: errors.Params{"project": id},
	})
}

// FindByAlias returns the one project with the specific alias.
func (r Project) FindByAlias(ctx context.Context, alias string) (app.Project, error) {
	var p app.Project
	q := `SELECT "id", "type", "alias", "name", "status", "updated_at" FROM "projects" WHERE "alias" = $1`
	err := r.conn.QueryRow(ctx, q, alias).Scan(&p.ID, &p.Type, &p.Alias, &p.Name, &p.Status, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		err = errtype.ErrNotFound
	}
	return p, errors.WrapContext(err, errors.Context{
		Path:   "postgres.Project.FindByAlias.Scan",
		Params: errors.Params{"alias": alias},
	})
}

// FindPending returns the one project that is awaiting downloading.
func (r Project) FindPending(ctx context.Context) (app.Project, error) {
	var p app.Project
	q := `SELECT "id", "type", "alias", "name", "status", "updated_at" FROM "projects" WHERE "status" = $1 LIMIT 1`
	err := r.conn.QueryRow(ctx, q, app.ProjectStatusPending).
		Scan(&p.ID, &p.Type, &p.Alias, &p.Name, &p.Status, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		err = errtype.ErrNotFound
	}
	return p, errors.WrapContext(err, errors.Context{Path: "postgres.Project.FindPending.Scan"})
}

// Add saves a new project.
func (r Project) Add(ctx context.Context, p app.Project) (app.Project, error) {
	q := `INSERT INTO "projects" ("type", "alias", "name", "status", "updated_at")
		VALUES ($1, $2, $3, $4, $5) RETURNING "id"`
	err := r.conn.QueryRow(ctx, q, p.Type, p.Alias, p.Name, p.Status, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return p, errors.WrapContext(err, errors.Context{Path: "postgres.Project.Add.Scan"})
	}
	return p, nil
}

// Update modifies a specific project.
func (r Project) Update(ctx context.Context, p app.Project) (app.Project, error) {
	q := `UPDATE "projects" SET "status" = $2, "updated_at" = $3 WHERE "id" = $1`
	_, err := r.conn.Exec(ctx, q, p.ID, p.Status, p.UpdatedAt)
	return p, errors.WrapContext(err, errors.Context{
		Path:   "postgres.Project.Update.Exec",
		Params: errors.Params{"project": p.ID, "status": p.Status},
	})
}
