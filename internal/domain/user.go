// Package domain contains entity types without transport or lifecycle
// logic attached.
package domain

import "errors"

const MaxNameLen = 64

var (
	ErrUserIDEmpty = errors.New("user id empty")
	ErrNameEmpty   = errors.New("name empty")
	ErrNameTooLong = errors.New("name too long")
)

// User is a client-supplied identity. Unlike the generic web-app case, the
// id is not minted server-side — the client picks a stable id and reuses it
// across reconnects so the Presence Controller can recognize the same
// person coming back.
type User struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

func NewUser(id UserID, name string) (*User, error) {
	if id == "" {
		return nil, ErrUserIDEmpty
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &User{ID: id, Name: name}, nil
}

func (u *User) SetName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	u.Name = name
	return nil
}

func validateName(name string) error {
	if len(name) == 0 {
		return ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return ErrNameTooLong
	}
	return nil
}
