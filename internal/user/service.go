package user

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"golang.org/x/crypto/bcrypt"

	emailService "github.com/budgetbook/BudgetBook/internal/email"
)

const (
	maxEmailLength = 254
	minEmailLength = 3
	maxLoginLength = 30
	minLoginLength = 5
	bcryptCost     = 12
	CodeVerifyType = "verify"

	codeLifetime = 10 * time.Minute
)

var (
	ErrInvalidEmail            = errors.New("email address is not valid")
	ErrEmailNotAuthorized      = errors.New("email address is not authorized")
	ErrEmailLength             = fmt.Errorf("email address is too long or too short, max length: %d, min length: %d", maxEmailLength, minEmailLength)
	ErrLoginLength             = fmt.Errorf("login is too long or too short, max length: %d, min length: %d", maxLoginLength, minLoginLength)
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrLoginAlreadyExists      = errors.New("login already exists")
	ErrInternalError           = errors.New("internal Server Error")
	ErrUserAlreadyVerified     = errors.New("user already verified")
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrVerificationCodeExpired = errors.New("verification code expired")
	ErrInvalidOldPassword      = errors.New("invalid old password")
)

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Login            string    `json:"login"`
	PasswordHash     string    `json:"-"`
	IsActive         bool      `json:"is_verified"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	TwoFactorMethod  string    `json:"two_factor_method"`
	HashToken        string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Service interface {
	Register(email, login, password string) (*User, error)
	VerifyRegistrationCode(email, code string) error
	GetUserByID(userID string) (*User, error)
	GetUserByLoginOrEmail(loginOrEmail string) (*User, error)
	EmailAuthorized(email string) bool
	ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error
	PurgeExpiredCodes() (int64, error)
}

type service struct {
	repo         Repository
	emailService emailService.EmailSender
	allowlist    *Allowlist
}

func NewUserService(repo Repository, emailService emailService.EmailSender, allowlist *Allowlist) Service {
	return &service{
		repo:         repo,
		emailService: emailService,
		allowlist:    allowlist,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func generateVerificationCode() (string, error) {
	code := make([]byte, 6)
	_, err := rand.Read(code)
	if err != nil {
		return "", fmt.Errorf("could not generate verification code: %v", err)
	}
	for i := range code {
		code[i] = '0' + (code[i] % 10)
	}

	return string(code), nil
}

func generateHashToken() (string, error) {
	token := make([]byte, 32)
	_, err := rand.Read(token)
	if err != nil {
		return "", fmt.Errorf("could not generate hash token: %v", err)
	}
	return hex.EncodeToString(token), nil
}

func validateEmailAddress(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	if len(email) > maxEmailLength || len(email) <= minEmailLength {
		return ErrEmailLength
	}
	return nil
}

func (s *service) Register(email, login, password string) (*User, error) {
	err := validateEmailAddress(email)
	if err != nil {
		return nil, err
	}

	// Closed-beta gate, checked before any account state exists.
	if !s.allowlist.Allows(email) {
		return nil, ErrEmailNotAuthorized
	}

	if len(login) == 0 {
		parts := strings.Split(email, "@")
		if len(parts) < 2 {
			return nil, ErrInvalidEmail
		}
		login = parts[0]
	} else if len(login) > maxLoginLength || len(login) < minLoginLength {
		return nil, ErrLoginLength
	}

	existingUser, err := s.repo.userExistsByLoginOrEmail(login, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		fmt.Println("Error with database request:", err)
		return nil, ErrInternalError
	}

	if existingUser != nil {
		if existingUser.Login == login {
			return nil, ErrLoginAlreadyExists
		} else if existingUser.Email == email {
			return nil, ErrEmailAlreadyExists
		}
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		fmt.Println("Error during hashing the password")
		return nil, ErrInternalError
	}

	hashToken, err := generateHashToken()
	if err != nil {
		fmt.Println("Error during generating a hashToken")
		return nil, ErrInternalError
	}

	user := &User{
		Email:        email,
		Login:        login,
		PasswordHash: passwordHash,
		HashToken:    hashToken,
	}

	err = s.repo.createUser(user)
	if err != nil {
		fmt.Println("Error during creating the user:", err)
		return nil, ErrInternalError
	}

	err = s.SendVerificationCode(user)
	if err != nil {
		fmt.Println("Error during sending verification email:", err)
		return nil, ErrInternalError
	}

	return user, nil
}

func (s *service) SendVerificationCode(user *User) error {
	newCode, err := generateVerificationCode()
	if err != nil {
		return fmt.Errorf("could not generate verification code: %v", err)
	}

	expirationTime := time.Now().Add(codeLifetime).UTC()
	err = s.repo.saveEmailVerificationCode(user.ID, newCode, CodeVerifyType, expirationTime)
	if err != nil {
		return fmt.Errorf("could not save verification code: %v", err)
	}

	s.emailService.QueueEmail(user.Email, emailService.RegistrationConfirmationData{
		UserName: user.Login,
		Code:     newCode,
	})

	return nil
}

func (s *service) VerifyRegistrationCode(email, code string) error {
	user, err := s.repo.getUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if user.IsActive {
		return ErrUserAlreadyVerified
	}

	storedCode, codeType, expiryTime, _, err := s.repo.getEmailVerificationCode(user.ID)
	if err != nil {
		return ErrInvalidVerificationCode
	}

	if codeType != CodeVerifyType || storedCode != code {
		return ErrInvalidVerificationCode
	}

	if time.Now().UTC().After(expiryTime) {
		return ErrVerificationCodeExpired
	}

	if err := s.repo.updateEmailVerified(user.ID, true); err != nil {
		fmt.Println("Error updating user verified flag:", err)
		return ErrInternalError
	}

	if err := s.repo.deleteEmailVerificationCode(user.ID); err != nil {
		fmt.Println("Error deleting used verification code:", err)
	}
	return nil
}

func (s *service) GetUserByID(userID string) (*User, error) {
	return s.repo.getUserByID(userID)
}

func (s *service) GetUserByLoginOrEmail(loginOrEmail string) (*User, error) {
	return s.repo.getUserByLoginOrEmail(loginOrEmail)
}

// EmailAuthorized re-checks the closed-beta gate. Login consults it so that
// shrinking the allowlist also locks out existing accounts.
func (s *service) EmailAuthorized(email string) bool {
	return s.allowlist.Allows(email)
}

func (s *service) ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidOldPassword
	}

	newHash, err := hashPassword(newPassword)
	if err != nil {
		return ErrInternalError
	}

	if err := s.repo.updateUserPassword(userID, newHash); err != nil {
		fmt.Println("Error updating password:", err)
		return ErrInternalError
	}
	return nil
}

// PurgeExpiredCodes removes stale verification codes; run periodically.
func (s *service) PurgeExpiredCodes() (int64, error) {
	return s.repo.purgeExpiredEmailCodes()
}
