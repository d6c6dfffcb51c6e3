package postgres

import (
	"time"

	roleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/role"
	userDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/user"
	"github.com/backofficehq/admin-backend/internal/role"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

// Search filters on a case-insensitive name substring and orders by id
// descending. LOWER(...) LIKE keeps the same contains semantics on Postgres
// and on the sqlite test database.
func (r *RoleRepository) Search(search string) ([]*roleDatamodel.Role, error) {
	var roles []*roleDatamodel.Role
	err := r.db.
		Preload("Permissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("permissions.id ASC")
		}).
		Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%").
		Order("id DESC").
		Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetByID(id int64) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	err := r.db.
		Preload("Permissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("permissions.id ASC")
		}).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) ExistsByName(name string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.Model(&roleDatamodel.Role{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RoleRepository) Create(row *roleDatamodel.Role) error {
	return r.db.Omit("Permissions").Create(row).Error
}

func (r *RoleRepository) UpdateName(id int64, name string) error {
	return r.db.Model(&roleDatamodel.Role{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       name,
			"updated_at": time.Now(),
		}).Error
}

// Delete hard-deletes the role together with its pivot rows; without the
// explicit pivot deletes the sqlite test schema would keep orphans.
func (r *RoleRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&roleDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&userDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&roleDatamodel.Role{}).Error
	})
}
