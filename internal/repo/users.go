package repo

import (
	"context"
	"fmt"
	"time"
)

// UsersRepo stores user records in the users table. The email column is
// unique; violations surface as ErrConflict.
type UsersRepo struct {
	table
}

func NewUsersRepo(pool DB) *UsersRepo {
	return &UsersRepo{table: table{Pool: pool, qTimeout: defaultQueryTimeout}}
}

func NewUsersRepoWith(pool DB, qTimeout time.Duration) *UsersRepo {
	return &UsersRepo{table: table{Pool: pool, qTimeout: qTimeout}}
}

func (r *UsersRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.exec(ctx, "users schema", qCreateUsersTable)
	return err
}

func (r *UsersRepo) CreateUser(ctx context.Context, name, email string) (User, error) {
	u := User{ID: newID(), Name: name, Email: email}
	if _, err := r.exec(ctx, "insert user", qInsertUser, u.ID, u.Name, u.Email); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetUser(ctx context.Context, id string) (User, error) {
	if !validID(id) {
		return User{}, ErrNotFound
	}
	ctxT, cancel := r.withQ(ctx)
	defer cancel()

	var u User
	err := r.Pool.QueryRow(ctxT, qUser, id).Scan(&u.ID, &u.Name, &u.Email)
	if errorsIsNoRows(err) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("getUser: %w", err)
	}
	return u, nil
}

func (r *UsersRepo) ListUsers(ctx context.Context) ([]User, error) {
	ctxT, cancel := r.withQ(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctxT, qUsers)
	if err != nil {
		return nil, fmt.Errorf("listUsers query: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0, defaultListCap)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("listUsers scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listUsers rows: %w", err)
	}
	return users, nil
}

// UpdateUser applies the non-nil fields of p. An empty patch reads the
// current record and writes nothing.
func (r *UsersRepo) UpdateUser(ctx context.Context, id string, p UserPatch) (User, error) {
	if p.Empty() {
		return r.GetUser(ctx, id)
	}
	if !validID(id) {
		return User{}, ErrNotFound
	}

	var name, email any
	if p.Name != nil {
		name = *p.Name
	}
	if p.Email != nil {
		email = *p.Email
	}

	ctxT, cancel := r.withQ(ctx)
	defer cancel()

	var u User
	err := r.Pool.QueryRow(ctxT, qUpdateUser, id, name, email).Scan(&u.ID, &u.Name, &u.Email)
	switch {
	case errorsIsNoRows(err):
		return User{}, ErrNotFound
	case isUniqueViolation(err):
		return User{}, ErrConflict
	case err != nil:
		return User{}, fmt.Errorf("updateUser: %w", err)
	}
	return u, nil
}

func (r *UsersRepo) DeleteUser(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	tag, err := r.exec(ctx, "delete user", qDeleteUser, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes every user. Test isolation only.
func (r *UsersRepo) Clear(ctx context.Context) error {
	_, err := r.exec(ctx, "clear users", qClearUsers)
	return err
}

func (r *UsersRepo) Ping(ctx context.Context) error { return r.ping(ctx) }
