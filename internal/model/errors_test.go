package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Messages(t *testing.T) {
	tests := []struct {
		name    string
		err     *APIError
		code    string
		message string
	}{
		{"user already exists", NewUserAlreadyExistsError(nil), ErrCodeUserAlreadyExists, "User already exists"},
		{"feed already exists", NewFeedAlreadyExistsError(nil), ErrCodeFeedAlreadyExists, "Feed already exists"},
		{"user not found", NewUserNotFoundError(), ErrCodeUserNotFound, "User not found"},
		{"feed not found", NewFeedNotFoundError(), ErrCodeFeedNotFound, "Feed not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.message)
			}
		})
	}
}

func TestAPIError_UnwrapsCause(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := fmt.Errorf("create user: %w", NewUserAlreadyExistsError(cause))

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !IsAlreadyExists(err) {
		t.Error("expected IsAlreadyExists to be true for wrapped error")
	}
}

func TestIsAlreadyExists_OtherErrors(t *testing.T) {
	if IsAlreadyExists(NewUserNotFoundError()) {
		t.Error("not found error must not be reported as already exists")
	}
	if IsAlreadyExists(errors.New("boom")) {
		t.Error("plain error must not be reported as already exists")
	}
}

func TestUserUpdate_Apply(t *testing.T) {
	user := &User{ID: 1, Username: "old_name"}

	UserUpdate{}.Apply(user)
	if user.Username != "old_name" {
		t.Errorf("empty update changed username to %q", user.Username)
	}

	name := "new_name"
	UserUpdate{Username: &name}.Apply(user)
	if user.Username != "new_name" {
		t.Errorf("Username = %q, want %q", user.Username, "new_name")
	}
	if user.ID != 1 {
		t.Errorf("ID changed to %d", user.ID)
	}
}
