package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
	"github.com/aussiebroadwan/pali/internal/pali/store"
	"github.com/jmoiron/sqlx"
)

const credentialColumns = `id, secret_hash, owner_label, role, protected, last_used_at, created_at, active`

type credentialRow struct {
	ID         string        `db:"id"`
	SecretHash string        `db:"secret_hash"`
	OwnerLabel string        `db:"owner_label"`
	Role       string        `db:"role"`
	Protected  int64         `db:"protected"`
	LastUsedAt sql.NullInt64 `db:"last_used_at"`
	CreatedAt  int64         `db:"created_at"`
	Active     int64         `db:"active"`
}

func encodeCredential(c domain.Credential) credentialRow {
	return credentialRow{
		ID:         c.ID,
		SecretHash: c.SecretHash,
		OwnerLabel: c.OwnerLabel,
		Role:       c.Role.String(),
		Protected:  encodeBool(c.Protected),
		LastUsedAt: encodeOptionalTime(c.LastUsedAt),
		CreatedAt:  encodeTime(c.CreatedAt),
		Active:     encodeBool(c.Active),
	}
}

func (r credentialRow) decode() (domain.Credential, error) {
	role, ok := domain.ParseRole(r.Role)
	if !ok {
		return domain.Credential{}, fmt.Errorf("credential %s: unknown role %q", r.ID, r.Role)
	}
	return domain.Credential{
		ID:         r.ID,
		SecretHash: r.SecretHash,
		OwnerLabel: r.OwnerLabel,
		Role:       role,
		Protected:  decodeBool(r.Protected),
		LastUsedAt: decodeOptionalTime(r.LastUsedAt),
		CreatedAt:  decodeTime(r.CreatedAt),
		Active:     decodeBool(r.Active),
	}, nil
}

func (r credentialRow) args() []any {
	return []any{r.ID, r.SecretHash, r.OwnerLabel, r.Role, r.Protected, r.LastUsedAt, r.CreatedAt, r.Active}
}

type credentialsRepo struct {
	q       sqlx.ExtContext
	dialect Dialect
}

func (r *credentialsRepo) CreateCredential(ctx context.Context, c domain.Credential) error {
	_, err := r.q.ExecContext(ctx,
		r.q.Rebind(`INSERT INTO credentials (`+credentialColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		encodeCredential(c).args()...,
	)
	return r.dialect.mapWriteError(err)
}

// The casts let postgres type the parameters of a bare SELECT list.
const insertInitialAdminQuery = `INSERT INTO credentials (` + credentialColumns + `)
SELECT CAST(? AS TEXT), CAST(? AS TEXT), CAST(? AS TEXT), CAST(? AS TEXT),
       CAST(? AS SMALLINT), CAST(? AS BIGINT), CAST(? AS BIGINT), CAST(? AS SMALLINT)
WHERE NOT EXISTS (SELECT 1 FROM credentials WHERE role = ?)`

func (r *credentialsRepo) CreateInitialAdmin(ctx context.Context, c domain.Credential) error {
	if c.Role != domain.RoleAdmin {
		return fmt.Errorf("initial credential must be an admin, got %q", c.Role)
	}
	args := append(encodeCredential(c).args(), domain.RoleAdmin.String())

	res, err := r.q.ExecContext(ctx, r.q.Rebind(insertInitialAdminQuery), args...)
	if err != nil {
		return r.dialect.mapWriteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *credentialsRepo) GetCredentialByID(ctx context.Context, id string) (domain.Credential, error) {
	var row credentialRow
	err := sqlx.GetContext(ctx, r.q, &row,
		r.q.Rebind(`SELECT `+credentialColumns+` FROM credentials WHERE id = ?`), id)
	if err != nil {
		return domain.Credential{}, mapNotFound(err)
	}
	return row.decode()
}

func (r *credentialsRepo) GetActiveCredentialByHash(ctx context.Context, hash string) (domain.Credential, error) {
	var row credentialRow
	err := sqlx.GetContext(ctx, r.q, &row,
		r.q.Rebind(`SELECT `+credentialColumns+` FROM credentials WHERE secret_hash = ? AND active = ?`),
		hash, encodeBool(true),
	)
	if err != nil {
		return domain.Credential{}, mapNotFound(err)
	}
	return row.decode()
}

func (r *credentialsRepo) ListCredentials(ctx context.Context) ([]domain.Credential, error) {
	var rows []credentialRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT `+credentialColumns+` FROM credentials ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Credential, 0, len(rows))
	for _, row := range rows {
		c, err := row.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *credentialsRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	res, err := r.q.ExecContext(ctx,
		r.q.Rebind(`UPDATE credentials SET last_used_at = ? WHERE id = ?`),
		encodeOptionalTime(&at), id,
	)
	return exactlyOne(res, err)
}

func (r *credentialsRepo) RevokeCredential(ctx context.Context, id string) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		r.q.Rebind(`UPDATE credentials SET active = ? WHERE id = ? AND active = ?`),
		encodeBool(false), id, encodeBool(true),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	// Nothing changed: either already revoked or never existed.
	var count int64
	err = sqlx.GetContext(ctx, r.q, &count,
		r.q.Rebind(`SELECT COUNT(*) FROM credentials WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, store.ErrNotFound
	}
	return false, nil
}

func (r *credentialsRepo) DeactivateAdmins(ctx context.Context) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		r.q.Rebind(`UPDATE credentials SET active = ? WHERE role = ? AND active = ?`),
		encodeBool(false), domain.RoleAdmin.String(), encodeBool(true),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *credentialsRepo) HasAdmin(ctx context.Context) (bool, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.q, &count,
		r.q.Rebind(`SELECT COUNT(*) FROM credentials WHERE role = ?`), domain.RoleAdmin.String())
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *credentialsRepo) CountCredentials(ctx context.Context) (store.CredentialCounts, error) {
	var row struct {
		Total        int64 `db:"total"`
		Active       int64 `db:"active"`
		Admins       int64 `db:"admins"`
		ActiveAdmins int64 `db:"active_admins"`
	}
	err := sqlx.GetContext(ctx, r.q, &row, r.q.Rebind(`SELECT
	COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN active = ? THEN 1 ELSE 0 END), 0) AS active,
	COALESCE(SUM(CASE WHEN role = ? THEN 1 ELSE 0 END), 0) AS admins,
	COALESCE(SUM(CASE WHEN role = ? AND active = ? THEN 1 ELSE 0 END), 0) AS active_admins
FROM credentials`),
		encodeBool(true), domain.RoleAdmin.String(), domain.RoleAdmin.String(), encodeBool(true),
	)
	if err != nil {
		return store.CredentialCounts{}, err
	}
	return store.CredentialCounts{
		Total:        row.Total,
		Active:       row.Active,
		Admins:       row.Admins,
		ActiveAdmins: row.ActiveAdmins,
	}, nil
}

func (r *credentialsRepo) DeleteCredential(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM credentials WHERE id = ?`), id)
	return exactlyOne(res, err)
}
