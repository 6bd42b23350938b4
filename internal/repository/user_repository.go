package repository

import (
	"context"

	"github.com/yukikurage/pms-api/internal/database"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) conn(ctx context.Context) *gorm.DB {
	return DBFromContext(ctx, r.db)
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translateError(r.conn(ctx).Create(user).Error)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users with pagination
func (r *GormUserRepository) List(ctx context.Context, page *utils.PaginationParams) ([]models.User, int64, error) {
	query := r.conn(ctx).Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("users.created_at DESC, users.id")
	if page != nil {
		listQuery = listQuery.Scopes(database.Paginate(*page))
	}

	users := []models.User{}
	if err := listQuery.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update updates a user
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return translateError(r.conn(ctx).Omit(clause.Associations).Save(user).Error)
}

// Delete deletes a user
func (r *GormUserRepository) Delete(ctx context.Context, id string) error {
	return deleteResult(r.conn(ctx).Delete(&models.User{}, "id = ?", id))
}
