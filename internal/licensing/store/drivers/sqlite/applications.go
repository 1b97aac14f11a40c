package sqlite

import (
	"context"
	"database/sql"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
)

type applicationsRepo struct {
	q queryer
}

const applicationColumns = `id, name, api_key, created_by, created_at`

func (r *applicationsRepo) CreateApplication(ctx context.Context, app domain.Application) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO applications (id, name, api_key, created_by, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		app.ID, app.Name, app.APIKey, app.CreatedBy, app.CreatedAt,
	)
	return mapErr(err)
}

func (r *applicationsRepo) GetApplicationByAPIKey(ctx context.Context, apiKey string) (domain.Application, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+applicationColumns+` FROM applications WHERE api_key = ?`, apiKey)
	return scanApplication(row)
}

func (r *applicationsRepo) GetApplicationByName(ctx context.Context, name string) (domain.Application, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+applicationColumns+` FROM applications WHERE name = ?`, name)
	return scanApplication(row)
}

func (r *applicationsRepo) ListApplications(ctx context.Context) ([]domain.Application, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+applicationColumns+` FROM applications
		ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *applicationsRepo) ListApplicationsByOwner(ctx context.Context, ownerID string) ([]domain.Application, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE created_by = ?
		ORDER BY created_at DESC, rowid DESC`, ownerID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *applicationsRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM applications WHERE created_by = ?`, ownerID).Scan(&count)
	if err != nil {
		return 0, mapErr(err)
	}
	return count, nil
}

func (r *applicationsRepo) DeleteApplication(ctx context.Context, name string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM applications WHERE name = ?`, name)
	if err != nil {
		return false, mapErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (domain.Application, error) {
	var app domain.Application
	err := row.Scan(&app.ID, &app.Name, &app.APIKey, &app.CreatedBy, &app.CreatedAt)
	if err != nil {
		return domain.Application{}, mapErr(err)
	}
	return app, nil
}

func collectApplications(rows *sql.Rows) ([]domain.Application, error) {
	var apps []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, mapErr(rows.Err())
}
