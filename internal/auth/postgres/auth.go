package auth

import (
	"database/sql"
	"fmt"

	"github.com/frahmantamala/voucher-management/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetPasswordForEmail(email string) (string, string, error) {
	var passwordHash string
	var userID string
	query := `SELECT id, password_hash FROM users WHERE email = ? AND is_active = true`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", "", fmt.Errorf("user not found")
		}
		return "", "", err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	var user auth.User

	query := `SELECT id, company_id, email, name FROM users WHERE id = ? AND is_active = true`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.CompanyID, &user.Email, &user.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	permissions, err := r.permissionsForUser(userID)
	if err != nil {
		return nil, err
	}
	user.Permissions = permissions

	return &user, nil
}

// ListUsersWithCapability returns active users holding the named permission,
// admins included.
func (r *Repository) ListUsersWithCapability(capability string) ([]*auth.User, error) {
	query := `SELECT DISTINCT u.id, u.company_id, u.email, u.name
	         FROM users u
	         JOIN user_permissions up ON up.user_id = u.id
	         JOIN permissions p ON p.id = up.permission_id
	         WHERE u.is_active = true AND p.name IN (?, 'admin')`

	rows, err := r.db.Raw(query, capability).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*auth.User
	for rows.Next() {
		var u auth.User
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.Email, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *Repository) permissionsForUser(userID int64) ([]string, error) {
	query := `SELECT p.name
	         FROM permissions p
	         JOIN user_permissions up ON p.id = up.permission_id
	         WHERE up.user_id = ?`

	rows, err := r.db.Raw(query, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		permissions = append(permissions, name)
	}
	return permissions, rows.Err()
}
