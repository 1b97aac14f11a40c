package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
)

type keysRepo struct {
	q queryer
}

const keyColumns = `key, api_key, prefix, device_limit, banned, used, system_info, first_used, expires_at, created_at`

func (r *keysRepo) CreateKey(ctx context.Context, k domain.Key) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO license_keys
			(key, api_key, prefix, device_limit, banned, used, system_info, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		k.Key, k.APIKey, k.Prefix, k.DeviceLimit, k.Banned, k.Used, k.SystemInfo,
		k.ExpiresAt, k.CreatedAt,
	)
	return mapErr(err)
}

func (r *keysRepo) GetKey(ctx context.Context, apiKey, key string) (domain.Key, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+keyColumns+` FROM license_keys
		WHERE api_key = ? AND key = ?`, apiKey, key)

	k, err := scanKey(row)
	if err != nil {
		return domain.Key{}, err
	}

	k.HWIDs, err = r.devices(ctx, k.Key)
	if err != nil {
		return domain.Key{}, err
	}
	return k, nil
}

func (r *keysRepo) DeleteKey(ctx context.Context, apiKey, key string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM license_keys WHERE api_key = ? AND key = ?`, apiKey, key)
	if err != nil {
		return false, mapErr(err)
	}
	return affected(res)
}

func (r *keysRepo) BanKey(ctx context.Context, apiKey, key string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE license_keys SET banned = 1 WHERE api_key = ? AND key = ?`, apiKey, key)
	if err != nil {
		return false, mapErr(err)
	}
	return affected(res)
}

func (r *keysRepo) ResetBinding(ctx context.Context, apiKey, key string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE license_keys
		SET used = 0, system_info = '', first_used = NULL
		WHERE api_key = ? AND key = ?`, apiKey, key)
	if err != nil {
		return false, mapErr(err)
	}
	ok, err := affected(res)
	if err != nil || !ok {
		return false, err
	}

	if _, err := r.q.ExecContext(ctx, `DELETE FROM key_devices WHERE key = ?`, key); err != nil {
		return false, mapErr(err)
	}
	return true, nil
}

func (r *keysRepo) ListKeysByAPI(ctx context.Context, apiKey string) ([]domain.Key, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+keyColumns+` FROM license_keys
		WHERE api_key = ?
		ORDER BY created_at DESC, rowid DESC`, apiKey)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var keys []domain.Key
	index := make(map[string]int)
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		index[k.Key] = len(keys)
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}

	// Attach device sets in binding order with one pass over the child table.
	devRows, err := r.q.QueryContext(ctx, `
		SELECT d.key, d.hwid FROM key_devices d
		JOIN license_keys k ON k.key = d.key
		WHERE k.api_key = ?
		ORDER BY d.bound_at ASC, d.rowid ASC`, apiKey)
	if err != nil {
		return nil, mapErr(err)
	}
	defer devRows.Close()

	for devRows.Next() {
		var key, hwid string
		if err := devRows.Scan(&key, &hwid); err != nil {
			return nil, mapErr(err)
		}
		if i, ok := index[key]; ok {
			keys[i].HWIDs = append(keys[i].HWIDs, hwid)
		}
	}
	return keys, mapErr(devRows.Err())
}

func (r *keysRepo) CountByAPI(ctx context.Context, apiKey string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM license_keys WHERE api_key = ?`, apiKey).Scan(&count)
	if err != nil {
		return 0, mapErr(err)
	}
	return count, nil
}

func (r *keysRepo) BindDevice(ctx context.Context, key, hwid string, deviceLimit int, at time.Time) (bool, error) {
	// Conditional insert: the count guard and the append are one statement,
	// so two racing validations can never push the set past the limit.
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO key_devices (key, hwid, bound_at)
		SELECT ?1, ?2, ?3
		WHERE (SELECT COUNT(*) FROM key_devices WHERE key = ?1) < ?4`,
		key, hwid, at, deviceLimit,
	)
	if err != nil {
		return false, mapErr(err)
	}
	return affected(res)
}

func (r *keysRepo) MarkUsed(ctx context.Context, key, systemInfo string, at time.Time) error {
	// COALESCE preserves the set-once guarantee on first_used.
	_, err := r.q.ExecContext(ctx, `
		UPDATE license_keys
		SET used = 1, system_info = ?, first_used = COALESCE(first_used, ?)
		WHERE key = ?`,
		systemInfo, at, key,
	)
	return mapErr(err)
}

func (r *keysRepo) devices(ctx context.Context, key string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT hwid FROM key_devices WHERE key = ?
		ORDER BY bound_at ASC, rowid ASC`, key)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var hwids []string
	for rows.Next() {
		var hwid string
		if err := rows.Scan(&hwid); err != nil {
			return nil, mapErr(err)
		}
		hwids = append(hwids, hwid)
	}
	return hwids, mapErr(rows.Err())
}

func scanKey(row rowScanner) (domain.Key, error) {
	var (
		k         domain.Key
		firstUsed sql.NullTime
	)
	err := row.Scan(
		&k.Key, &k.APIKey, &k.Prefix, &k.DeviceLimit, &k.Banned, &k.Used,
		&k.SystemInfo, &firstUsed, &k.ExpiresAt, &k.CreatedAt,
	)
	if err != nil {
		return domain.Key{}, mapErr(err)
	}
	if firstUsed.Valid {
		t := firstUsed.Time
		k.FirstUsed = &t
	}
	return k, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
