package repository

import (
	"database/sql"
	"errors"

	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

func (r *Repository) CreateClient(c *domain.Client) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		INSERT INTO clients (owner_id, name, phone, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := r.dbpool.QueryRowContext(ctx, query, c.OwnerID, c.Name, c.Phone, c.Email).Scan(&c.ID); err != nil {
		return wrapErr("创建客户", "客户", nil, err)
	}

	return nil
}

func (r *Repository) GetClientByID(id int64) (*domain.Client, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT owner_id, name, phone, email FROM clients WHERE id = $1
	`

	c := &domain.Client{ID: id}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&c.OwnerID, &c.Name, &c.Phone, &c.Email); err != nil {
		return nil, wrapErr("查询客户", "客户", id, err)
	}

	return c, nil
}

func (r *Repository) GetClientsByOwnerID(ownerID string) ([]*domain.Client, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT id, name, phone, email FROM clients WHERE owner_id = $1 ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, wrapErr("查询客户列表", "客户", nil, err)
	}
	defer rows.Close()

	clients := []*domain.Client{}
	for rows.Next() {
		c := &domain.Client{OwnerID: ownerID}
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email); err != nil {
			return nil, wrapErr("查询客户列表", "客户", nil, err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("查询客户列表", "客户", nil, err)
	}

	return clients, nil
}

// GetClientIDByPhone 返回该商家下该手机号对应的客户 ID，不存在时 exists 为 false
func (r *Repository) GetClientIDByPhone(ownerID, phone string) (id int64, exists bool, err error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT id FROM clients WHERE owner_id = $1 AND phone = $2
	`

	if err := r.dbpool.QueryRowContext(ctx, query, ownerID, phone).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, wrapErr("按手机号查询客户", "客户", phone, err)
	}

	return id, true, nil
}

func (r *Repository) UpdateClient(c *domain.Client) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		UPDATE clients
		SET
			name = $1,
			phone = $2,
			email = $3
		WHERE id = $4
	`

	res, err := r.dbpool.ExecContext(ctx, query, c.Name, c.Phone, c.Email, c.ID)
	if err != nil {
		return wrapErr("更新客户", "客户", c.ID, err)
	}

	return expectAffected("更新客户", res, 1)
}

func (r *Repository) DeleteClient(id int64) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return wrapErr("删除客户", "客户", id, err)
	}

	return expectAffected("删除客户", res, 1)
}
