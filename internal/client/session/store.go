package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkarev/healthpulse/internal/client/repositories/metadata"
	"github.com/mkarev/healthpulse/internal/dbx"
)

// Store persists the session triple.
//
// Contract:
//   - Load: returns (nil, nil) when no complete session is stored.
//   - Save: writes all three keys, atomically as far as the backing store
//     allows.
//   - Clear: removes all three keys; clearing an absent session is not an
//     error.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// SQLiteStore keeps the session in the local metadata table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load reads the three session keys. A missing key makes the whole session
// count as absent, so a partial write left over from a crash never
// bootstraps a half-session.
func (s *SQLiteStore) Load(ctx context.Context) (*Session, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	tokenType, err := repo.Get(ctx, KeyTokenType)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	userData, err := repo.Get(ctx, KeyUserData)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	if token == nil || tokenType == nil || userData == nil {
		return nil, nil
	}

	return &Session{
		AccessToken: string(token),
		TokenType:   string(tokenType),
		UserData:    string(userData),
	}, nil
}

// Save writes the session triple in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, sess *Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyAccessToken, []byte(sess.AccessToken)); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyTokenType, []byte(sess.TokenType)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUserData, []byte(sess.UserData))
	})
}

// Clear deletes the session triple in a single transaction.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, KeyAccessToken); err != nil {
			return err
		}
		if err := repo.Delete(ctx, KeyTokenType); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyUserData)
	})
}
