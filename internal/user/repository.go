package user

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoEmailCode  = errors.New("no email verification code generated")
)

type Repository interface {
	createUser(user *User) error
	userExistsByLoginOrEmail(login, email string) (*User, error)
	getUserByEmail(email string) (*User, error)
	getUserByLoginOrEmail(loginOrEmail string) (*User, error)
	getUserByID(id string) (*User, error)
	saveEmailVerificationCode(userID, code, codeType string, expiresAt time.Time) error
	getEmailVerificationCode(userID string) (string, string, time.Time, time.Time, error)
	deleteEmailVerificationCode(userID string) error
	purgeExpiredEmailCodes() (int64, error)
	updateEmailVerified(userID string, verified bool) error
	updateUserPassword(userID, newPasswordHash string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `id, email, login, password_hash, is_verified, two_factor_enabled, two_factor_method, hash_token, created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Login, &user.PasswordHash, &user.IsActive,
		&user.TwoFactorEnabled, &user.TwoFactorMethod, &user.HashToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %v", err)
	}
	return &user, nil
}

func (r *userRepository) createUser(user *User) error {
	query := `
		INSERT INTO users (email, login, password_hash, hash_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id;
	`
	var id string
	err := r.db.QueryRow(query, user.Email, user.Login, user.PasswordHash, user.HashToken).Scan(&id)
	if err != nil {
		return fmt.Errorf("could not create user: %v", err)
	}

	user.ID = id
	return nil
}

func (r *userRepository) getUserByEmail(email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(r.db.QueryRow(query, email))
}

func (r *userRepository) getUserByLoginOrEmail(loginOrEmail string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE login = $1 OR email = $1`, userColumns)
	return scanUser(r.db.QueryRow(query, loginOrEmail))
}

func (r *userRepository) getUserByID(id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(r.db.QueryRow(query, id))
}

func (r *userRepository) userExistsByLoginOrEmail(login, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE login = $1 OR email = $2`, userColumns)
	return scanUser(r.db.QueryRow(query, login, email))
}

func (r *userRepository) saveEmailVerificationCode(userID, code, codeType string, expiresAt time.Time) error {
	query := `
		INSERT INTO user_email_codes (user_id, code, code_type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET code = EXCLUDED.code,
		    code_type = EXCLUDED.code_type,
		    expires_at = EXCLUDED.expires_at,
		    created_at = NOW()
	`
	_, err := r.db.Exec(query, userID, code, codeType, expiresAt)
	if err != nil {
		return fmt.Errorf("could not save verification code: %v", err)
	}
	return nil
}

func (r *userRepository) getEmailVerificationCode(userID string) (string, string, time.Time, time.Time, error) {
	query := `
		SELECT code, code_type, expires_at, created_at
		FROM user_email_codes
		WHERE user_id = $1
	`

	var code, codeType string
	var expiresAt, createdAt time.Time
	err := r.db.QueryRow(query, userID).Scan(&code, &codeType, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", time.Time{}, time.Time{}, ErrNoEmailCode
		}
		return "", "", time.Time{}, time.Time{}, fmt.Errorf("could not get verification code: %v", err)
	}
	return code, codeType, expiresAt, createdAt, nil
}

func (r *userRepository) deleteEmailVerificationCode(userID string) error {
	_, err := r.db.Exec(`DELETE FROM user_email_codes WHERE user_id = $1`, userID)
	return err
}

func (r *userRepository) purgeExpiredEmailCodes() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM user_email_codes WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *userRepository) updateEmailVerified(userID string, verified bool) error {
	query := `UPDATE users SET is_verified = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(query, verified, userID)
	return err
}

func (r *userRepository) updateUserPassword(userID, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(query, newPasswordHash, userID)
	return err
}
