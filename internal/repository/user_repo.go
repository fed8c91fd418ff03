package repository

import (
	"context"
	"errors"
	"fmt"

	"forum_api/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, username string, req model.UpdateProfileRequest) (bool, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password, firstname, lastname, phone_number, address, gender, profile_picture, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.PhoneNumber, &u.Address, &u.Gender, &u.ProfilePicture, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user and fills in its id and creation time
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (username, email, password, firstname, lastname)
            VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email; (nil, nil) when absent
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByUsername retrieves a user by username; (nil, nil) when absent
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// UpdateProfile overwrites the profile fields of username. A nil picture keeps
// the stored one. Returns false when the user does not exist.
func (r *userRepository) UpdateProfile(ctx context.Context, username string, req model.UpdateProfileRequest) (bool, error) {
	sql := `UPDATE users SET
                firstname = $1,
                lastname = $2,
                email = $3,
                phone_number = $4,
                address = $5,
                gender = $6,
                profile_picture = COALESCE($7, profile_picture)
            WHERE username = $8`
	tag, err := r.db.Exec(ctx, sql, req.FirstName, req.LastName, req.Email, req.Phone, req.Address, req.Gender,
		req.ProfilePicture, username)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return false, dup
		}
		return false, fmt.Errorf("failed to update profile: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
