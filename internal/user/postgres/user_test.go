package postgres_test

import (
	"testing"

	roleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/role"
	sucursaleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/sucursale"
	userDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/user"
	"github.com/backofficehq/admin-backend/internal/user"
	userPostgres "github.com/backofficehq/admin-backend/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("User PostgreSQL Repository", func() {
	var (
		db        *gorm.DB
		repo      user.RepositoryAPI
		editor    roleDatamodel.Role
		principal sucursaleDatamodel.Sucursale
	)

	newUser := func(name, email string) *userDatamodel.User {
		return &userDatamodel.User{
			Name:         name,
			Surname:      "Test",
			Email:        email,
			PasswordHash: "hash",
			RoleID:       editor.ID,
			SucursaleID:  principal.ID,
			Gender:       "1",
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&roleDatamodel.Role{},
			&roleDatamodel.Permission{},
			&roleDatamodel.RolePermission{},
			&sucursaleDatamodel.Sucursale{},
			&userDatamodel.User{},
			&userDatamodel.UserRole{},
		)
		Expect(err).NotTo(HaveOccurred())

		editor = roleDatamodel.Role{Name: "Editor", GuardName: "api"}
		Expect(db.Create(&editor).Error).To(Succeed())
		principal = sucursaleDatamodel.Sucursale{Name: "Sucursal Principal"}
		Expect(db.Create(&principal).Error).To(Succeed())

		repo = userPostgres.NewUserRepository(db)
	})

	Describe("Create and GetByID", func() {
		It("should persist the user and load it with role and sucursale", func() {
			row := newUser("Ana", "ana@example.com")
			Expect(repo.Create(row)).To(Succeed())
			Expect(row.ID).To(BeNumerically(">", 0))

			found, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).NotTo(BeNil())
			Expect(found.Email).To(Equal("ana@example.com"))
			Expect(found.Role.Name).To(Equal("Editor"))
			Expect(found.Sucursale.Name).To(Equal("Sucursal Principal"))
		})

		It("should return nil for a missing user", func() {
			found, err := repo.GetByID(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})

		It("should enforce the unique email constraint", func() {
			Expect(repo.Create(newUser("Ana", "ana@example.com"))).To(Succeed())
			err := repo.Create(newUser("Otra", "ana@example.com"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			Expect(repo.Create(newUser("Ana", "ana@example.com"))).To(Succeed())
			Expect(repo.Create(newUser("Bruno", "bruno@example.com"))).To(Succeed())
		})

		It("should return users newest id first on empty search", func() {
			users, err := repo.Search("")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
			Expect(users[0].Name).To(Equal("Bruno"))
			Expect(users[1].Name).To(Equal("Ana"))
		})

		It("should match a case-insensitive name substring", func() {
			users, err := repo.Search("aN")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].Name).To(Equal("Ana"))
		})

		It("should not match on email", func() {
			users, err := repo.Search("bruno@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(0))
		})

		It("should preload role and sucursale", func() {
			users, err := repo.Search("ana")
			Expect(err).NotTo(HaveOccurred())
			Expect(users[0].Role.Name).To(Equal("Editor"))
			Expect(users[0].Sucursale.Name).To(Equal("Sucursal Principal"))
		})
	})

	Describe("EmailExists", func() {
		var stored *userDatamodel.User

		BeforeEach(func() {
			stored = newUser("Ana", "ana@example.com")
			Expect(repo.Create(stored)).To(Succeed())
		})

		It("should match regardless of casing", func() {
			exists, err := repo.EmailExists("ANA@EXAMPLE.COM", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("should exclude the given id", func() {
			exists, err := repo.EmailExists("ana@example.com", stored.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	Describe("Update", func() {
		It("should persist changed fields", func() {
			row := newUser("Ana", "ana@example.com")
			Expect(repo.Create(row)).To(Succeed())

			row.Name = "Anita"
			row.Avatar = "users/avatar.png"
			Expect(repo.Update(row)).To(Succeed())

			found, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Name).To(Equal("Anita"))
			Expect(found.Avatar).To(Equal("users/avatar.png"))
		})
	})

	Describe("Delete", func() {
		It("should remove the user and its role assignments", func() {
			row := newUser("Ana", "ana@example.com")
			Expect(repo.Create(row)).To(Succeed())

			assignment := userDatamodel.UserRole{UserID: row.ID, RoleID: editor.ID}
			Expect(db.Create(&assignment).Error).To(Succeed())

			Expect(repo.Delete(row.ID)).To(Succeed())

			found, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())

			var count int64
			Expect(db.Model(&userDatamodel.UserRole{}).Where("user_id = ?", row.ID).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})
	})

	Describe("Reference checks", func() {
		It("should report existing and missing roles", func() {
			exists, err := repo.RoleExists(editor.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = repo.RoleExists(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})

		It("should report existing and missing sucursales", func() {
			exists, err := repo.SucursaleExists(principal.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = repo.SucursaleExists(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})
})
