package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hitoshi/rssreader/internal/model"
)

// PostgresFeedRepo はPostgreSQLを使用したフィードリポジトリ。
type PostgresFeedRepo struct {
	db *sqlx.DB
}

// NewPostgresFeedRepo はPostgresFeedRepoを生成する。
func NewPostgresFeedRepo(db *sqlx.DB) *PostgresFeedRepo {
	return &PostgresFeedRepo{db: db}
}

// Create はフィードを作成する。
func (r *PostgresFeedRepo) Create(ctx context.Context, feed *model.Feed) (*model.Feed, error) {
	created := &model.Feed{}
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, created,
			`INSERT INTO feed (url, title, subtitle, updated)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, url, title, subtitle, updated`,
			feed.URL, feed.Title, feed.Subtitle, feed.Updated,
		)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.NewFeedAlreadyExistsError(err)
		}
		return nil, fmt.Errorf("フィードの作成に失敗しました: %w", err)
	}

	return created, nil
}

// List はフィード一覧をid昇順で返す。
func (r *PostgresFeedRepo) List(ctx context.Context, offset, limit int) ([]model.Feed, error) {
	feeds := []model.Feed{}
	err := r.db.SelectContext(ctx, &feeds,
		`SELECT id, url, title, subtitle, updated FROM feed ORDER BY id ASC OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("フィード一覧の取得に失敗しました: %w", err)
	}

	return feeds, nil
}

// FindByID は指定IDのフィードを取得する。見つからない場合はnilを返す。
func (r *PostgresFeedRepo) FindByID(ctx context.Context, id int64) (*model.Feed, error) {
	feed := &model.Feed{}
	err := r.db.GetContext(ctx, feed,
		`SELECT id, url, title, subtitle, updated FROM feed WHERE id = $1`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("フィードの取得に失敗しました: %w", err)
	}

	return feed, nil
}

// DeleteByID はフィードを削除し、削除前の状態を返す。見つからない場合はnilを返す。
func (r *PostgresFeedRepo) DeleteByID(ctx context.Context, id int64) (*model.Feed, error) {
	var deleted *model.Feed
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		feed := &model.Feed{}
		err := tx.GetContext(ctx, feed,
			`SELECT id, url, title, subtitle, updated FROM feed WHERE id = $1 FOR UPDATE`,
			id,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM feed WHERE id = $1`, id); err != nil {
			return err
		}
		deleted = feed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("フィードの削除に失敗しました: %w", err)
	}

	return deleted, nil
}

// compile-time interface check
var _ FeedRepository = (*PostgresFeedRepo)(nil)
