package repository

import (
	"database/sql"
	"go-project-api/model"
)

// IRoleRepository defines the contract for role lookups. Roles are rows, not
// an enum; the expected names are seeded by the migrations.
type IRoleRepository interface {
	GetRoleByName(name string) (*model.Role, error)
}

type RoleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{DB: db}
}

func (r *RoleRepository) GetRoleByName(name string) (*model.Role, error) {
	role := &model.Role{}
	query := `SELECT id, name FROM roles WHERE name=$1`
	err := r.DB.QueryRow(query, name).Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, err // sql.ErrNoRows means the seed data is missing
	}
	return role, nil
}
