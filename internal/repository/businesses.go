package repository

import (
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

func (r *Repository) CreateBusiness(b *domain.Business) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		INSERT INTO businesses (owner_id, name, address, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	args := []any{b.OwnerID, b.Name, b.Address, b.Phone}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&b.ID); err != nil {
		return wrapErr("创建商家", "商家", b.OwnerID, err)
	}

	return nil
}

func (r *Repository) GetBusinessByOwnerID(ownerID string) (*domain.Business, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT id, name, address, phone FROM businesses WHERE owner_id = $1
	`

	b := &domain.Business{OwnerID: ownerID}
	if err := r.dbpool.QueryRowContext(ctx, query, ownerID).Scan(&b.ID, &b.Name, &b.Address, &b.Phone); err != nil {
		return nil, wrapErr("查询商家", "商家", ownerID, err)
	}

	return b, nil
}

func (r *Repository) UpdateBusiness(b *domain.Business) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		UPDATE businesses
		SET
			name = $1,
			address = $2,
			phone = $3
		WHERE owner_id = $4
	`

	res, err := r.dbpool.ExecContext(ctx, query, b.Name, b.Address, b.Phone, b.OwnerID)
	if err != nil {
		return wrapErr("更新商家", "商家", b.OwnerID, err)
	}

	return expectAffected("更新商家", res, 1)
}
