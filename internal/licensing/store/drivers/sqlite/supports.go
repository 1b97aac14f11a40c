package sqlite

import (
	"context"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
)

type supportsRepo struct {
	q queryer
}

func (r *supportsRepo) CreateSupport(ctx context.Context, grant domain.SupportGrant) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO support_grants (user_id, added_by, added_at)
		VALUES (?, ?, ?)`,
		grant.UserID, grant.AddedBy, grant.AddedAt,
	)
	return mapErr(err)
}

func (r *supportsRepo) DeleteSupport(ctx context.Context, userID string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM support_grants WHERE user_id = ?`, userID)
	if err != nil {
		return false, mapErr(err)
	}
	return affected(res)
}

func (r *supportsRepo) ListSupports(ctx context.Context) ([]domain.SupportGrant, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT user_id, added_by, added_at FROM support_grants
		ORDER BY added_at DESC, rowid DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var grants []domain.SupportGrant
	for rows.Next() {
		var g domain.SupportGrant
		if err := rows.Scan(&g.UserID, &g.AddedBy, &g.AddedAt); err != nil {
			return nil, mapErr(err)
		}
		grants = append(grants, g)
	}
	return grants, mapErr(rows.Err())
}

func (r *supportsRepo) IsSupport(ctx context.Context, userID string) (bool, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM support_grants WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return false, mapErr(err)
	}
	return count > 0, nil
}
