package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// AccountRepository persists backend accounts.
type AccountRepository struct {
	db   *sql.DB
	cost int
}

// NewAccountRepository creates a new [AccountRepository] with the given database connection
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db, cost: bcrypt.DefaultCost}
}

// WithCost sets the bcrypt cost used for new accounts.
func (r *AccountRepository) WithCost(cost int) *AccountRepository {
	r.cost = cost
	return r
}

// Create stores a new account and returns it with its generated id.
func (r *AccountRepository) Create(name, email, password string) (*Account, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", shared.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", shared.ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := r.db.Exec(`INSERT INTO accounts (name, email, password_hash) VALUES (?, ?, ?)`, name, email, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrEmailTaken, email)
		}
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read account id: %w", err)
	}
	return &Account{ID: id, Name: name, Email: email, passwordHash: string(hash)}, nil
}

// Get retrieves an account by id.
func (r *AccountRepository) Get(id int64) (*Account, error) {
	return r.scanOne(`SELECT id, name, email, password_hash FROM accounts WHERE id = ?`, id)
}

// FindByEmail retrieves an account by email, ignoring case.
func (r *AccountRepository) FindByEmail(email string) (*Account, error) {
	return r.scanOne(`SELECT id, name, email, password_hash FROM accounts WHERE email = ?`, normalizeEmail(email))
}

// Exists reports whether an account with id exists.
func (r *AccountRepository) Exists(id int64) (bool, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(1) FROM accounts WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to query account: %w", err)
	}
	return n > 0, nil
}

// Authenticate returns the account when email and password match.
//
// An unknown email and a wrong password fail the same way.
func (r *AccountRepository) Authenticate(email, password string) (*Account, error) {
	account, err := r.FindByEmail(email)
	if errors.Is(err, shared.ErrUserNotFound) {
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.passwordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	return account, nil
}

// Delete removes an account and, through the foreign key, its favorites.
func (r *AccountRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %d", shared.ErrUserNotFound, id)
	}
	return nil
}

func (r *AccountRepository) scanOne(query string, arg any) (*Account, error) {
	var a Account
	err := r.db.QueryRow(query, arg).Scan(&a.ID, &a.Name, &a.Email, &a.passwordHash)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %v", shared.ErrUserNotFound, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &a, nil
}

// User returns the public identity of the account.
func (a *Account) User() models.User {
	return models.User{ID: a.ID, Name: a.Name, Email: a.Email}
}
