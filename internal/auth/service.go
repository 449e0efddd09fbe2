package auth

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/budgetbook/BudgetBook/internal/user"
)

const totpAuthMethod = "totp"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInternalError         = errors.New("internal Server Error")
	ErrUser2FANotEnabled     = errors.New("two factor auth is not enabled")
	ErrInvalid2FACode        = errors.New("2fa code is invalid")
	ErrUser2FAAlreadyEnabled = errors.New("2fa auth already enabled")
	ErrUserNotVerified       = errors.New("user has not been verified")
	ErrEmailNotAuthorized    = errors.New("email address is not authorized")
)

type Service interface {
	Login(emailOrLogin, password string) (*user.User, string, string, error)
	VerifyTwoFactor(sessionToken, code string) (*user.User, string, string, error)
	RegisterTwoFactor(userID string) (string, error)
	ConfirmTwoFactor(userID, code string) error
	DisableTwoFactor(userID, code string) error
	RefreshAccessToken(userID string) (string, string, error)
	CleanupSessions() int
	JWTRefreshTokenMiddleware() func(http.Handler) http.Handler
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	repo           TwoFactorRepository
	userService    user.Service
	sessionManager SessionManagerInterface
	jwtManager     JWTManagerInterface
	authenticator  Authenticator
}

func NewAuthService(repo TwoFactorRepository, userService user.Service, sessionManager SessionManagerInterface, jwtManager JWTManagerInterface, authenticator Authenticator) Service {
	return &service{
		repo:           repo,
		userService:    userService,
		sessionManager: sessionManager,
		jwtManager:     jwtManager,
		authenticator:  authenticator,
	}
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

// Login returns the user plus either (sessionToken, "") when a 2FA step is
// still required, or (accessToken, refreshToken) when login is complete.
func (s *service) Login(emailOrLogin, password string) (*user.User, string, string, error) {
	existingUser, err := s.userService.GetUserByLoginOrEmail(emailOrLogin)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", ErrInternalError
	}

	if !doPasswordsMatch(existingUser.PasswordHash, password) {
		return nil, "", "", ErrInvalidCredentials
	}

	if !s.userService.EmailAuthorized(existingUser.Email) {
		return nil, "", "", ErrEmailNotAuthorized
	}

	if !existingUser.IsActive {
		return nil, "", "", ErrUserNotVerified
	}

	if existingUser.TwoFactorEnabled {
		sessionToken, err := s.sessionManager.GenerateSessionToken(existingUser.ID, defaultSessionTokenDuration)
		if err != nil {
			return nil, "", "", ErrInternalError
		}
		return existingUser, sessionToken, "", nil
	}

	return s.issueTokens(existingUser)
}

func (s *service) issueTokens(existingUser *user.User) (*user.User, string, string, error) {
	jwtToken, err := s.jwtManager.GenerateAccessJWT(existingUser.ID, defaultJWTDuration)
	if err != nil {
		fmt.Println("error during JWT generation")
		return nil, "", "", ErrInternalError
	}
	refreshToken, err := s.jwtManager.GenerateRefreshJWT(existingUser.ID, existingUser.HashToken, defaultJWTRefreshDuration)
	if err != nil {
		fmt.Println("error during refresh token generation")
		return nil, "", "", ErrInternalError
	}

	return existingUser, jwtToken, refreshToken, nil
}

func (s *service) VerifyTwoFactor(sessionToken, code string) (*user.User, string, string, error) {
	userID, err := s.sessionManager.VerifySessionToken(sessionToken)
	if err != nil {
		return nil, "", "", err
	}

	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", "", ErrUserNotFound
		}
		return nil, "", "", ErrInternalError
	}

	secret, err := s.repo.GetTwoFactorSecret(userID)
	if err != nil {
		return nil, "", "", err
	}

	if !s.authenticator.VerifyCode(secret, code) {
		return nil, "", "", ErrInvalid2FACode
	}

	s.sessionManager.DeleteSessionToken(sessionToken)
	return s.issueTokens(existingUser)
}

// RegisterTwoFactor generates and stores a TOTP secret, returning the
// provisioning URI. The method stays disabled until ConfirmTwoFactor
// proves the user can produce a valid code.
func (s *service) RegisterTwoFactor(userID string) (string, error) {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", ErrInternalError
	}

	if existingUser.TwoFactorEnabled {
		return "", ErrUser2FAAlreadyEnabled
	}

	otpURI, secret, err := s.authenticator.GenerateSecret(existingUser.Email)
	if err != nil {
		return "", err
	}

	if err := s.repo.SaveTwoFactorSecret(userID, secret); err != nil {
		return "", err
	}

	return otpURI, nil
}

func (s *service) ConfirmTwoFactor(userID, code string) error {
	secret, err := s.repo.GetTwoFactorSecret(userID)
	if err != nil {
		return err
	}

	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}

	return s.repo.EnableTwoFactor(userID, totpAuthMethod)
}

func (s *service) DisableTwoFactor(userID, code string) error {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}

	secret, err := s.repo.GetTwoFactorSecret(userID)
	if err != nil {
		return err
	}

	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}

	return s.repo.DisableTwoFactor(userID)
}

func (s *service) RefreshAccessToken(userID string) (string, string, error) {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", "", ErrUserNotFound
		}
		return "", "", ErrInternalError
	}

	accessToken, err := s.jwtManager.GenerateAccessJWT(existingUser.ID, defaultJWTDuration)
	if err != nil {
		return "", "", ErrInternalError
	}

	refreshToken, err := s.jwtManager.GenerateRefreshJWT(existingUser.ID, existingUser.HashToken, defaultJWTRefreshDuration)
	if err != nil {
		return "", "", ErrInternalError
	}

	return accessToken, refreshToken, nil
}

func (s *service) CleanupSessions() int {
	return s.sessionManager.CleanupExpiredTokens()
}
