// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/rssreader/internal/model"
	"github.com/hitoshi/rssreader/internal/repository"
)

// Service はユーザー管理のサービス層。
type Service struct {
	repo repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

// Create はユーザーを作成する。
func (s *Service) Create(ctx context.Context, in model.UserCreate) (*model.User, error) {
	created, err := s.repo.Create(ctx, &model.User{Username: in.Username})
	if err != nil {
		return nil, err
	}

	slog.Info("ユーザーを作成しました",
		slog.Int64("user_id", created.ID),
		slog.String("username", created.Username),
	)
	return created, nil
}

// List はユーザー一覧を返す。
func (s *Service) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	return s.repo.List(ctx, offset, limit)
}

// Get はusernameでユーザーを返す。
func (s *Service) Get(ctx context.Context, username string) (*model.User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}
	return u, nil
}

// Update はユーザーの指定フィールドのみを更新する。
func (s *Service) Update(ctx context.Context, username string, update model.UserUpdate) (*model.User, error) {
	u, err := s.repo.Update(ctx, username, update)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}

	if !update.IsEmpty() {
		slog.Info("ユーザーを更新しました",
			slog.Int64("user_id", u.ID),
			slog.String("username", u.Username),
		)
	}
	return u, nil
}

// Delete はユーザーを削除する。
func (s *Service) Delete(ctx context.Context, username string) error {
	deleted, err := s.repo.DeleteByUsername(ctx, username)
	if err != nil {
		return err
	}
	if deleted == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("ユーザーを削除しました",
		slog.Int64("user_id", deleted.ID),
		slog.String("username", deleted.Username),
	)
	return nil
}
