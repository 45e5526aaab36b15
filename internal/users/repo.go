package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, name, email, password string, role Role, address string) (string, error) {
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `INSERT INTO users(id, name, email, password, role, address)
	                          VALUES ($1,$2,$3,$4,$5,$6)`, id, name, email, password, role, address)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (User, error) {
	return r.get(ctx, `SELECT id, name, email, password, role, address, created_at
	                   FROM users WHERE id=$1`, id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.get(ctx, `SELECT id, name, email, password, role, address, created_at
	                   FROM users WHERE email=$1`, email)
}

func (r *Repo) get(ctx context.Context, query, arg string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Address, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}
