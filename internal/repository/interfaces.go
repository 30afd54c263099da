// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/rssreader/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
// 見つからない場合はエラーではなくnilを返す。
type UserRepository interface {
	// Create はユーザーを作成し、採番済みのユーザーを返す。
	// usernameが重複する場合はロールバックしてAlreadyExistsエラーを返す。
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// List はid昇順でoffset件をスキップし、最大limit件のユーザーを返す。
	List(ctx context.Context, offset, limit int) ([]model.User, error)

	// FindByUsername はusernameでユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Update はusernameで特定したユーザーに指定フィールドのみを反映する。
	// 見つからない場合はnilを返す。usernameが重複する場合はAlreadyExistsエラーを返す。
	Update(ctx context.Context, username string, update model.UserUpdate) (*model.User, error)

	// DeleteByUsername はユーザーを削除し、削除前の状態を返す。見つからない場合はnilを返す。
	DeleteByUsername(ctx context.Context, username string) (*model.User, error)
}

// FeedRepository はフィードデータの永続化インターフェース。
// 見つからない場合はエラーではなくnilを返す。
type FeedRepository interface {
	// Create はフィードを作成し、採番済みのフィードを返す。
	// urlが重複する場合はロールバックしてAlreadyExistsエラーを返す。
	Create(ctx context.Context, feed *model.Feed) (*model.Feed, error)

	// List はid昇順でoffset件をスキップし、最大limit件のフィードを返す。
	List(ctx context.Context, offset, limit int) ([]model.Feed, error)

	// FindByID は指定IDのフィードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Feed, error)

	// DeleteByID はフィードを削除し、削除前の状態を返す。見つからない場合はnilを返す。
	DeleteByID(ctx context.Context, id int64) (*model.Feed, error)
}
