package repository

import (
	"database/sql"
	"go-project-api/model"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(tx *sql.Tx, user *model.User) error
	AssignRole(tx *sql.Tx, userID, roleID int) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	GetUsersByCompanyID(companyID int64) ([]*model.User, error)
	UpdatePassword(userID int, hashedPassword string) error
	UpdateLastActive(userID int) error
	ReplaceUserRoles(userID int, roleIDs []int) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser inserts a user inside the caller's transaction so that company
// creation and role assignment commit or roll back together.
func (r *UserRepository) CreateUser(tx *sql.Tx, user *model.User) error {
	query := `INSERT INTO users (username, email, password, company_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return tx.QueryRow(query, user.Username, user.Email, user.Password, user.CompanyID).Scan(&user.ID, &user.CreatedAt)
}

func (r *UserRepository) AssignRole(tx *sql.Tx, userID, roleID int) error {
	query := `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`
	_, err := tx.Exec(query, userID, roleID)
	return err
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	return r.getUser(`SELECT id, username, email, password, company_id, last_active_at, created_at FROM users WHERE email=$1`, email)
}

func (r *UserRepository) GetUserByUsername(username string) (*model.User, error) {
	return r.getUser(`SELECT id, username, email, password, company_id, last_active_at, created_at FROM users WHERE username=$1`, username)
}

func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	return r.getUser(`SELECT id, username, email, password, company_id, last_active_at, created_at FROM users WHERE id=$1`, id)
}

func (r *UserRepository) getUser(query string, arg interface{}) (*model.User, error) {
	user := &model.User{}
	err := r.DB.QueryRow(query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.CompanyID, &user.LastActiveAt, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if user.Roles, err = r.getRoleNames(user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) getRoleNames(userID int) ([]string, error) {
	query := `SELECT ro.name FROM roles ro JOIN user_roles ur ON ur.role_id = ro.id WHERE ur.user_id = $1 ORDER BY ro.name`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *UserRepository) GetUsersByCompanyID(companyID int64) ([]*model.User, error) {
	query := `SELECT id, username, email, password, company_id, last_active_at, created_at FROM users WHERE company_id=$1 ORDER BY username`
	rows, err := r.DB.Query(query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.Password,
			&user.CompanyID, &user.LastActiveAt, &user.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.Roles, err = r.getRoleNames(user.ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (r *UserRepository) UpdatePassword(userID int, hashedPassword string) error {
	query := `UPDATE users SET password=$1 WHERE id=$2`
	_, err := r.DB.Exec(query, hashedPassword, userID)
	return err
}

func (r *UserRepository) UpdateLastActive(userID int) error {
	query := `UPDATE users SET last_active_at=now() WHERE id=$1`
	_, err := r.DB.Exec(query, userID)
	return err
}

// ReplaceUserRoles swaps the user's role set in a single transaction.
func (r *UserRepository) ReplaceUserRoles(userID int, roleIDs []int) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM user_roles WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for _, roleID := range roleIDs {
		if _, err := tx.Exec(`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, userID, roleID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
