package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewUserValidation(t *testing.T) {
	cases := []struct {
		name    string
		id      UserID
		uname   string
		wantErr error
	}{
		{"valid", "u1", "Alice", nil},
		{"empty id", "", "Alice", ErrUserIDEmpty},
		{"empty name", "u1", "", ErrNameEmpty},
		{"name too long", "u1", strings.Repeat("a", MaxNameLen+1), ErrNameTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := NewUser(tc.id, tc.uname)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil && (u == nil || u.ID != tc.id || u.Name != tc.uname) {
				t.Fatalf("expected constructed user to match inputs, got %+v", u)
			}
		})
	}
}

func TestUserSetNameRejectsInvalid(t *testing.T) {
	u, err := NewUser("u1", "Alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := u.SetName(""); !errors.Is(err, ErrNameEmpty) {
		t.Fatalf("expected ErrNameEmpty, got %v", err)
	}
	if u.Name != "Alice" {
		t.Fatalf("expected name unchanged after rejected update, got %q", u.Name)
	}
	if err := u.SetName("Bob"); err != nil {
		t.Fatalf("unexpected error setting valid name: %v", err)
	}
	if u.Name != "Bob" {
		t.Fatalf("expected name updated to Bob, got %q", u.Name)
	}
}
