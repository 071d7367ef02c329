package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Lastname        string     `json:"lastname"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Active          bool       `json:"active"`
	RoleID          int        `json:"role_id"`
	MetaAccessToken *string    `json:"-"`
	Deleted         bool       `json:"deleted"`
	DeletedAt       *time.Time `json:"deleted_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// HasMetaCredential indica se o usuário já vinculou um token de acesso do Meta
func (u *User) HasMetaCredential() bool {
	return u != nil && u.MetaAccessToken != nil && *u.MetaAccessToken != ""
}

type Claims struct {
	UserID       int
	UserName     string
	UserLastname string
	UserEmail    string
	UserActive   bool
	UserRoleID   int
	jwt.RegisteredClaims
}
