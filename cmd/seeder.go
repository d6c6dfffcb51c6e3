package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seedPermissions is the panel's permission catalogue; guard_name matches the
// roles the panel creates.
var seedPermissions = []string{
	"roles.index",
	"roles.store",
	"roles.show",
	"roles.update",
	"roles.destroy",
	"users.index",
	"users.store",
	"users.show",
	"users.update",
	"users.destroy",
	"sucursales.index",
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the base role, permissions and admin user",
	Long:  `Seed the database with the permission catalogue, the Administrador role, a main sucursale and an initial admin account.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		_, db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			clearSeedData(db)
		}

		for _, name := range seedPermissions {
			var exists int
			if err := db.Raw("SELECT 1 FROM permissions WHERE name = ?", name).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO permissions (name, guard_name, created_at, updated_at) VALUES (?, 'api', now(), now())", name).Error; err != nil {
				log.Fatalf("failed to insert permission %s: %v", name, err)
			}
		}
		fmt.Println("Seeded permission catalogue")

		roleName := "Administrador"
		var roleID int64
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", roleName).Row().Scan(&roleID); err != nil {
			if err := db.Exec("INSERT INTO roles (name, guard_name, created_at, updated_at) VALUES (?, 'api', now(), now())", roleName).Error; err != nil {
				log.Fatalf("failed to insert role: %v", err)
			}
			if err := db.Raw("SELECT id FROM roles WHERE name = ?", roleName).Row().Scan(&roleID); err != nil {
				log.Fatalf("failed to lookup role id: %v", err)
			}
			fmt.Println("Seeded role:", roleName)
		}

		for _, name := range seedPermissions {
			var pid int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", name).Row().Scan(&pid); err != nil {
				log.Fatalf("permission not found after insert %s: %v", name, err)
			}

			var exists int
			if err := db.Raw("SELECT 1 FROM role_has_permissions WHERE role_id = ? AND permission_id = ?", roleID, pid).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO role_has_permissions (role_id, permission_id) VALUES (?, ?)", roleID, pid).Error; err != nil {
				log.Fatalf("failed to grant permission %s: %v", name, err)
			}
		}
		fmt.Println("Granted all permissions to role:", roleName)

		sucursaleName := "Sucursal Principal"
		var sucursaleID int64
		if err := db.Raw("SELECT id FROM sucursales WHERE name = ?", sucursaleName).Row().Scan(&sucursaleID); err != nil {
			if err := db.Exec("INSERT INTO sucursales (name, address, created_at, updated_at) VALUES (?, '', now(), now())", sucursaleName).Error; err != nil {
				log.Fatalf("failed to insert sucursale: %v", err)
			}
			if err := db.Raw("SELECT id FROM sucursales WHERE name = ?", sucursaleName).Row().Scan(&sucursaleID); err != nil {
				log.Fatalf("failed to lookup sucursale id: %v", err)
			}
			fmt.Println("Seeded sucursale:", sucursaleName)
		}

		adminEmail := "admin@admin.com"
		var adminID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", adminEmail).Row().Scan(&adminID); err != nil {
			hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
			if err := db.Exec(
				"INSERT INTO users (name, surname, email, password_hash, role_id, sucursale_id, type_document, number_document, gender, phone, created_at, updated_at) VALUES ('Admin', 'Principal', ?, ?, ?, ?, 'DNI', '00000000', '1', '', now(), now())",
				adminEmail, string(hash), roleID, sucursaleID,
			).Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			if err := db.Raw("SELECT id FROM users WHERE email = ?", adminEmail).Row().Scan(&adminID); err != nil {
				log.Fatalf("failed to lookup admin user id: %v", err)
			}
			fmt.Println("Seeded admin user:", adminEmail)
		}

		var exists int
		if err := db.Raw("SELECT 1 FROM user_roles WHERE user_id = ? AND role_id = ?", adminID, roleID).Row().Scan(&exists); err != nil {
			if err := db.Exec("INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)", adminID, roleID).Error; err != nil {
				log.Fatalf("failed to assign role to admin user: %v", err)
			}
		}

		fmt.Println("Seeding complete")
	},
}

func clearSeedData(db *gorm.DB) {
	for _, table := range []string{"user_roles", "role_has_permissions", "users", "roles", "permissions", "sucursales"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear table %s: %v", table, err)
		}
	}
	fmt.Println("Cleared existing data")
}
