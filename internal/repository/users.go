package repository

import (
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

func (r *Repository) CreateUser(user *domain.User) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		INSERT INTO users (id, full_name, email)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	args := []any{user.ID, user.FullName, user.Email}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.CreatedAt); err != nil {
		return wrapErr("创建用户", "用户", user.ID, err)
	}

	return nil
}

func (r *Repository) GetUserByID(id string) (*domain.User, error) {
	query := `
		SELECT full_name, email, created_at
		FROM users WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	user := &domain.User{
		ID: id,
	}

	dst := []any{&user.FullName, &user.Email, &user.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, wrapErr("查询用户", "用户", id, err)
	}

	return user, nil
}

func (r *Repository) GetAllUsers() ([]*domain.User, error) {
	query := `
		SELECT id, full_name, email, created_at FROM users ORDER BY created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("查询用户列表", "用户", nil, err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(&user.ID, &user.FullName, &user.Email, &user.CreatedAt); err != nil {
			return nil, wrapErr("查询用户列表", "用户", nil, err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("查询用户列表", "用户", nil, err)
	}

	return users, nil
}
