package repository

import (
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

func (r *Repository) CreateService(s *domain.Service) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		INSERT INTO services (owner_id, name, description, duration, price, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	args := []any{s.OwnerID, s.Name, s.Description, s.Duration, s.Price, s.ImageURL}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
		return wrapErr("创建服务", "服务", nil, err)
	}

	return nil
}

func (r *Repository) GetServicesByOwnerID(ownerID string) ([]*domain.Service, error) {
	query := `
		SELECT id, name, description, duration, price, image_url
		FROM services
		WHERE owner_id = $1
		ORDER BY id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, wrapErr("查询服务列表", "服务", nil, err)
	}
	defer rows.Close()

	services := []*domain.Service{}
	for rows.Next() {
		s := &domain.Service{OwnerID: ownerID}
		dst := []any{&s.ID, &s.Name, &s.Description, &s.Duration, &s.Price, &s.ImageURL}
		if err := rows.Scan(dst...); err != nil {
			return nil, wrapErr("查询服务列表", "服务", nil, err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("查询服务列表", "服务", nil, err)
	}

	return services, nil
}

func (r *Repository) GetServiceByID(id int64) (*domain.Service, error) {
	query := `
		SELECT owner_id, name, description, duration, price, image_url
		FROM services
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	s := &domain.Service{ID: id}
	dst := []any{&s.OwnerID, &s.Name, &s.Description, &s.Duration, &s.Price, &s.ImageURL}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, wrapErr("查询服务", "服务", id, err)
	}

	return s, nil
}

// GetOwnerIDByServiceID 在删除服务之前先找到其所属商家
func (r *Repository) GetOwnerIDByServiceID(id int64) (string, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	var ownerID string
	if err := r.dbpool.QueryRowContext(ctx, `SELECT owner_id FROM services WHERE id = $1`, id).Scan(&ownerID); err != nil {
		return "", wrapErr("查询服务所属商家", "服务", id, err)
	}

	return ownerID, nil
}

func (r *Repository) UpdateService(s *domain.Service) error {
	query := `
		UPDATE services
		SET
			name = $1,
			description = $2,
			duration = $3,
			price = $4,
			image_url = $5
		WHERE id = $6
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{s.Name, s.Description, s.Duration, s.Price, s.ImageURL, s.ID}
	res, err := r.dbpool.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr("更新服务", "服务", s.ID, err)
	}

	return expectAffected("更新服务", res, 1)
}

func (r *Repository) DeleteService(id int64) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return wrapErr("删除服务", "服务", id, err)
	}

	return expectAffected("删除服务", res, 1)
}
