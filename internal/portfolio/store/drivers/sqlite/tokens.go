package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/subham12r/portfolio/internal/portfolio/domain"
	"github.com/subham12r/portfolio/internal/portfolio/store"
)

type tokensRepo struct {
	db    *sql.DB
	codec *store.Codec
}

func (r *tokensRepo) GetToken(ctx context.Context, integration string) (domain.TokenState, error) {
	var sealed []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT sealed FROM oauth_tokens WHERE integration = ?`, integration,
	).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TokenState{}, store.ErrNotFound
	}
	if err != nil {
		return domain.TokenState{}, fmt.Errorf("sqlite: get token: %w", err)
	}
	return r.codec.Decode(integration, sealed)
}

func (r *tokensRepo) SaveToken(ctx context.Context, integration string, st domain.TokenState) error {
	sealed, err := r.codec.Encode(integration, st)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO oauth_tokens (integration, sealed, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (integration) DO UPDATE SET
			sealed = excluded.sealed,
			updated_at = excluded.updated_at`,
		integration, sealed, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save token: %w", err)
	}
	return nil
}

func (r *tokensRepo) DeleteToken(ctx context.Context, integration string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM oauth_tokens WHERE integration = ?`, integration); err != nil {
		return fmt.Errorf("sqlite: delete token: %w", err)
	}
	return nil
}
