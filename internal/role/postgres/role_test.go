package postgres_test

import (
	"testing"
	"time"

	roleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/role"
	userDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/user"
	"github.com/backofficehq/admin-backend/internal/role"
	rolePostgres "github.com/backofficehq/admin-backend/internal/role/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRolePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Role Postgres Suite")
}

var _ = Describe("Role PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo role.RepositoryAPI
	)

	createPermission := func(name string) roleDatamodel.Permission {
		permission := roleDatamodel.Permission{Name: name, GuardName: "api"}
		Expect(db.Create(&permission).Error).To(Succeed())
		return permission
	}

	grant := func(roleID, permissionID int64) {
		pivot := roleDatamodel.RolePermission{RoleID: roleID, PermissionID: permissionID}
		Expect(db.Create(&pivot).Error).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&roleDatamodel.Role{},
			&roleDatamodel.Permission{},
			&roleDatamodel.RolePermission{},
			&userDatamodel.UserRole{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = rolePostgres.NewRoleRepository(db)
	})

	Describe("Create", func() {
		It("should create a new role", func() {
			row := &roleDatamodel.Role{Name: "Editor", GuardName: "api"}
			Expect(repo.Create(row)).To(Succeed())
			Expect(row.ID).To(BeNumerically(">", 0))
		})

		It("should fail to create a duplicate name", func() {
			Expect(repo.Create(&roleDatamodel.Role{Name: "Editor", GuardName: "api"})).To(Succeed())
			err := repo.Create(&roleDatamodel.Role{Name: "Editor", GuardName: "api"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			editor := &roleDatamodel.Role{Name: "Editor", GuardName: "api"}
			supervisor := &roleDatamodel.Role{Name: "Supervisor", GuardName: "api"}
			Expect(repo.Create(editor)).To(Succeed())
			Expect(repo.Create(supervisor)).To(Succeed())

			p1 := createPermission("users.index")
			p2 := createPermission("roles.index")
			grant(editor.ID, p2.ID)
			grant(editor.ID, p1.ID)
		})

		It("should return all roles newest id first on empty search", func() {
			roles, err := repo.Search("")
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(2))
			Expect(roles[0].Name).To(Equal("Supervisor"))
			Expect(roles[1].Name).To(Equal("Editor"))
		})

		It("should match a case-insensitive substring", func() {
			roles, err := repo.Search("eDiT")
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(1))
			Expect(roles[0].Name).To(Equal("Editor"))
		})

		It("should preload permissions ordered by id", func() {
			roles, err := repo.Search("editor")
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(1))
			Expect(roles[0].Permissions).To(HaveLen(2))
			Expect(roles[0].Permissions[0].Name).To(Equal("users.index"))
			Expect(roles[0].Permissions[1].Name).To(Equal("roles.index"))
		})

		It("should return no roles for a non-matching search", func() {
			roles, err := repo.Search("nonexistent")
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(0))
		})
	})

	Describe("GetByID", func() {
		It("should return the role with permissions", func() {
			row := &roleDatamodel.Role{Name: "Editor", GuardName: "api"}
			Expect(repo.Create(row)).To(Succeed())
			permission := createPermission("users.index")
			grant(row.ID, permission.ID)

			found, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).NotTo(BeNil())
			Expect(found.Name).To(Equal("Editor"))
			Expect(found.Permissions).To(HaveLen(1))
		})

		It("should return nil for a missing role", func() {
			found, err := repo.GetByID(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})
	})

	Describe("ExistsByName", func() {
		BeforeEach(func() {
			Expect(repo.Create(&roleDatamodel.Role{Name: "Editor", GuardName: "api"})).To(Succeed())
		})

		It("should match regardless of casing", func() {
			exists, err := repo.ExistsByName("EDITOR", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("should exclude the given id", func() {
			var stored roleDatamodel.Role
			Expect(db.Where("name = ?", "Editor").First(&stored).Error).To(Succeed())

			exists, err := repo.ExistsByName("editor", stored.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})

		It("should return false for an unknown name", func() {
			exists, err := repo.ExistsByName("nonexistent", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	Describe("UpdateName", func() {
		It("should rename the role and touch updated_at", func() {
			row := &roleDatamodel.Role{Name: "Editor", GuardName: "api", UpdatedAt: time.Now().Add(-time.Hour)}
			Expect(repo.Create(row)).To(Succeed())

			Expect(repo.UpdateName(row.ID, "Moderador")).To(Succeed())

			found, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Name).To(Equal("Moderador"))
			Expect(found.UpdatedAt).To(BeTemporally(">", row.UpdatedAt))
		})
	})

	Describe("Delete", func() {
		It("should remove the role together with its pivot rows", func() {
			row := &roleDatamodel.Role{Name: "Editor", GuardName: "api"}
			Expect(repo.Create(row)).To(Succeed())
			permission := createPermission("users.index")
			grant(row.ID, permission.ID)

			assignment := userDatamodel.UserRole{UserID: 42, RoleID: row.ID}
			Expect(db.Create(&assignment).Error).To(Succeed())

			Expect(repo.Delete(row.ID)).To(Succeed())

			found, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())

			var pivotCount int64
			Expect(db.Model(&roleDatamodel.RolePermission{}).Where("role_id = ?", row.ID).Count(&pivotCount).Error).To(Succeed())
			Expect(pivotCount).To(BeZero())

			var assignmentCount int64
			Expect(db.Model(&userDatamodel.UserRole{}).Where("role_id = ?", row.ID).Count(&assignmentCount).Error).To(Succeed())
			Expect(assignmentCount).To(BeZero())
		})

		It("should keep the permission rows themselves", func() {
			row := &roleDatamodel.Role{Name: "Editor", GuardName: "api"}
			Expect(repo.Create(row)).To(Succeed())
			permission := createPermission("users.index")
			grant(row.ID, permission.ID)

			Expect(repo.Delete(row.ID)).To(Succeed())

			var permissionCount int64
			Expect(db.Model(&roleDatamodel.Permission{}).Count(&permissionCount).Error).To(Succeed())
			Expect(permissionCount).To(Equal(int64(1)))
		})
	})
})
