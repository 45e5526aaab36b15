package users

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidRole  = errors.New("invalid role")
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool { return r == RoleCustomer || r == RoleAdmin }

// User is a single entity; role gates capabilities instead of subclassing.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Role      Role
	Address   string
	CreatedAt time.Time
}

// CanManageCatalog gates book creation and stock administration.
func (u User) CanManageCatalog() bool { return u.Role == RoleAdmin }

// CanShop gates cart ownership and checkout.
func (u User) CanShop() bool { return u.Role == RoleCustomer }

func ValidateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return ErrInvalidEmail
	}
	return nil
}
