package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"redemptions", "vouchers", "voucher_requests", "ref_counters", "user_permissions", "shops"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared voucher data")
		}

		seedUsers(db)
		seedPermissions(db)
		seedCompanies(db)
	},
}

var seedPermissionNames = []struct {
	Name string
	Desc string
}{
	{"admin", "full administrator"},
	{"change_to_paid", "Can mark voucher requests as paid"},
	{"approve_request", "Can approve paid voucher requests"},
	{"reject_request", "Can reject voucher requests"},
	{"redeem_voucher", "Can redeem issued vouchers"},
}

func seedUsers(db *gorm.DB) {
	password := "password"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	users := []struct {
		Email string
		Name  string
	}{
		{"clerk@mail.com", "Counter Clerk"},
		{"approver@mail.com", "Request Approver"},
		{"admin@mail.com", "Admin"},
	}

	for _, u := range users {
		var exists int
		if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
			fmt.Println("user already exists:", u.Email)
			continue
		}
		if err := db.Exec("INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
			u.Email, u.Name, string(hash)).Error; err != nil {
			log.Fatalf("failed to insert user %s: %v", u.Email, err)
		}
		fmt.Println("Seeded user:", u.Email)
	}
}

func seedPermissions(db *gorm.DB) {
	for _, p := range seedPermissionNames {
		var pid int64
		if err := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row().Scan(&pid); err != nil {
			if err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES (?, ?, now())", p.Name, p.Desc).Error; err != nil {
				log.Fatalf("failed to insert permission %s: %v", p.Name, err)
			}
		}
	}

	grants := map[string][]string{
		"admin@mail.com":    {"admin"},
		"approver@mail.com": {"change_to_paid", "approve_request", "reject_request"},
		"clerk@mail.com":    {"redeem_voucher"},
	}

	for email, perms := range grants {
		var userID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&userID); err != nil {
			log.Fatalf("failed to lookup user %s: %v", email, err)
		}

		for _, permName := range perms {
			var pid int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&pid); err != nil {
				log.Fatalf("permission not found %s: %v", permName, err)
			}

			var exists int
			if err := db.Raw("SELECT 1 FROM user_permissions WHERE user_id = ? AND permission_id = ?", userID, pid).Row().Scan(&exists); err == nil {
				continue
			}

			if err := db.Exec("INSERT INTO user_permissions (user_id, permission_id, granted_by, created_at) VALUES (?, ?, NULL, now())", userID, pid).Error; err != nil {
				log.Fatalf("failed to grant permission %s to %s: %v", permName, email, err)
			}
		}
		fmt.Println("Granted permissions to:", email)
	}
}

func seedCompanies(db *gorm.DB) {
	companies := []struct {
		Name   string
		Prefix string
		Shops  []string
	}{
		{"Acme Retail", "ACM", []string{"Main Street", "Harbour Mall"}},
		{"Blue Lagoon", "BLG", []string{"Beachfront"}},
	}

	for _, c := range companies {
		var companyID int64
		if err := db.Raw("SELECT id FROM companies WHERE prefix = ?", c.Prefix).Row().Scan(&companyID); err != nil {
			if err := db.Exec("INSERT INTO companies (company_name, prefix, created_at, updated_at) VALUES (?, ?, now(), now())", c.Name, c.Prefix).Error; err != nil {
				log.Fatalf("failed to insert company %s: %v", c.Name, err)
			}
			if err := db.Raw("SELECT id FROM companies WHERE prefix = ?", c.Prefix).Row().Scan(&companyID); err != nil {
				log.Fatalf("company not found after insert %s: %v", c.Name, err)
			}
			fmt.Println("Seeded company:", c.Name)
		}

		for _, location := range c.Shops {
			var exists int
			if err := db.Raw("SELECT 1 FROM shops WHERE company_id = ? AND location = ?", companyID, location).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO shops (company_id, location, created_at, updated_at) VALUES (?, ?, now(), now())", companyID, location).Error; err != nil {
				log.Fatalf("failed to insert shop %s: %v", location, err)
			}
		}
	}
}
