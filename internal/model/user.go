// Package model はドメインモデルを定義する。
package model

// User はサービス利用ユーザーを表す。
// usernameはストレージ層で一意性が保証される。
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}

// UserCreate はユーザー作成時の入力を表す。
type UserCreate struct {
	Username string `json:"username" validate:"required,min=2,identifier"`
}

// UserUpdate はユーザーの部分更新の入力を表す。
// nilのフィールドは変更しない。
type UserUpdate struct {
	Username *string `json:"username" validate:"omitnil,min=2,identifier"`
}

// Apply は指定されたフィールドのみをuserに反映する。
func (u UserUpdate) Apply(user *User) {
	if u.Username != nil {
		user.Username = *u.Username
	}
}

// IsEmpty は更新対象のフィールドが1つも指定されていない場合にtrueを返す。
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil
}
