package postgres

import (
	roleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/role"
	sucursaleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/sucursale"
	userDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/user"
	"github.com/backofficehq/admin-backend/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

// Search filters on the name column only, case-insensitive contains, newest
// id first. Role and Sucursale ride along for the response shape.
func (r *UserRepository) Search(search string) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.
		Preload("Role").
		Preload("Sucursale").
		Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%").
		Order("id DESC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.
		Preload("Role").
		Preload("Sucursale").
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

func (r *UserRepository) EmailExists(email string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.Model(&userDatamodel.User{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) Create(row *userDatamodel.User) error {
	return r.db.Omit("Role", "Sucursale").Create(row).Error
}

func (r *UserRepository) Update(row *userDatamodel.User) error {
	return r.db.Omit("Role", "Sucursale").Save(row).Error
}

// Delete removes the user together with its role pivot rows.
func (r *UserRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&userDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&userDatamodel.User{}).Error
	})
}

func (r *UserRepository) RoleExists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&roleDatamodel.Role{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) SucursaleExists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&sucursaleDatamodel.Sucursale{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
