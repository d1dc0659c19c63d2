package inventory

import (
	"strings"

	"github.com/stockroom/backend/internal/domain/shared"
)

// User is a staff member. Users act on inventory (log entries) and can be
// assigned inventory items.
type User struct {
	shared.BaseEntity
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// NewUser creates a new user
func NewUser(name, email, avatar string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, shared.NewInvalidInput("user name cannot be empty")
	}
	if email == "" {
		return nil, shared.NewInvalidInput("user email cannot be empty")
	}
	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Avatar:     avatar,
	}, nil
}

// Category groups item definitions
type Category struct {
	shared.BaseEntity
	Name string `json:"name"`
}

// NewCategory creates a new category
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewInvalidInput("category name cannot be empty")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}
