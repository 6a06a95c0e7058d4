package repository

import (
	"context"

	"reviewhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// RoleRepository reads the static user_roles table.
type RoleRepository interface {
	FindByID(ctx context.Context, id int64) (*models.UserRole, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByID(ctx context.Context, id int64) (*models.UserRole, error) {
	var role models.UserRole
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}
