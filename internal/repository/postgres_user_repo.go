package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hitoshi/rssreader/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sqlx.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sqlx.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// Create はユーザーを作成する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	created := &model.User{}
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, created,
			`INSERT INTO "user" (username) VALUES ($1) RETURNING id, username`,
			user.Username,
		)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.NewUserAlreadyExistsError(err)
		}
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	return created, nil
}

// List はユーザー一覧をid昇順で返す。
func (r *PostgresUserRepo) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	users := []model.User{}
	err := r.db.SelectContext(ctx, &users,
		`SELECT id, username FROM "user" ORDER BY id ASC OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}

	return users, nil
}

// FindByUsername はusernameでユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := r.db.GetContext(ctx, user,
		`SELECT id, username FROM "user" WHERE username = $1`,
		username,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザー名によるユーザーの検索に失敗しました: %w", err)
	}

	return user, nil
}

// Update は指定されたフィールドのみを更新する。
// 読み込みから更新までを同一トランザクション内で行い、対象行をロックする。
func (r *PostgresUserRepo) Update(ctx context.Context, username string, update model.UserUpdate) (*model.User, error) {
	var updated *model.User
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		user, err := findUserForUpdate(ctx, tx, username)
		if err != nil || user == nil {
			return err
		}

		update.Apply(user)
		if update.IsEmpty() {
			updated = user
			return nil
		}

		updated = &model.User{}
		return tx.GetContext(ctx, updated,
			`UPDATE "user" SET username = $2 WHERE id = $1 RETURNING id, username`,
			user.ID, user.Username,
		)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.NewUserAlreadyExistsError(err)
		}
		return nil, fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}

	return updated, nil
}

// DeleteByUsername はユーザーを削除し、削除前の状態を返す。見つからない場合はnilを返す。
func (r *PostgresUserRepo) DeleteByUsername(ctx context.Context, username string) (*model.User, error) {
	var deleted *model.User
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		user, err := findUserForUpdate(ctx, tx, username)
		if err != nil || user == nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM "user" WHERE id = $1`, user.ID); err != nil {
			return err
		}
		deleted = user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	return deleted, nil
}

// findUserForUpdate はトランザクション内で対象ユーザーを行ロック付きで取得する。
func findUserForUpdate(ctx context.Context, tx *sqlx.Tx, username string) (*model.User, error) {
	user := &model.User{}
	err := tx.GetContext(ctx, user,
		`SELECT id, username FROM "user" WHERE username = $1 FOR UPDATE`,
		username,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
