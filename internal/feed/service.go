// Package feed はフィード登録・管理のドメインロジックを提供する。
package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/rssreader/internal/model"
	"github.com/hitoshi/rssreader/internal/repository"
)

// Enricher はフィードのメタデータ補完のインターフェース。
// テスタビリティのためReplenisherを抽象化する。
type Enricher interface {
	Replenish(ctx context.Context, f *model.Feed)
}

// Service はフィード管理のサービス層。
// 補完 → 保存のフローを統括する。
type Service struct {
	repo     repository.FeedRepository
	enricher Enricher
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.FeedRepository, enricher Enricher) *Service {
	return &Service{repo: repo, enricher: enricher}
}

// Create はフィードのメタデータを補完してから保存する。
// 補完は失敗しても番兵値で続行するため、エラーになるのは保存時のみ。
func (s *Service) Create(ctx context.Context, in model.FeedCreate) (*model.Feed, error) {
	f := in.NewFeed()
	s.enricher.Replenish(ctx, f)

	created, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, err
	}

	slog.Info("フィードを登録しました",
		slog.Int64("feed_id", created.ID),
		slog.String("url", created.URL),
	)
	return created, nil
}

// List はフィード一覧を返す。
func (s *Service) List(ctx context.Context, offset, limit int) ([]model.Feed, error) {
	return s.repo.List(ctx, offset, limit)
}

// Get は指定IDのフィードを返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.Feed, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得に失敗しました: %w", err)
	}
	if f == nil {
		return nil, model.NewFeedNotFoundError()
	}
	return f, nil
}

// Delete は指定IDのフィードを削除する。
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return model.NewFeedNotFoundError()
	}

	slog.Info("フィードを削除しました", slog.Int64("feed_id", id))
	return nil
}
