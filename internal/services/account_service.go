package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/benhaham/findscooter/internal/auth"
	"github.com/benhaham/findscooter/internal/models"
	"github.com/benhaham/findscooter/pkg/crypto"
	apperrors "github.com/benhaham/findscooter/pkg/errors"
	"github.com/benhaham/findscooter/pkg/logger"
	"github.com/benhaham/findscooter/pkg/mail"
)

const defaultCodeTTL = 24 * time.Hour

// AccountOption customises the AccountService.
type AccountOption func(*AccountService)

// WithCodeTTL overrides the verification code lifetime.
func WithCodeTTL(d time.Duration) AccountOption {
	return func(s *AccountService) {
		if d > 0 {
			s.codeTTL = d
		}
	}
}

// WithClock injects a custom time source.
func WithClock(clock func() time.Time) AccountOption {
	return func(s *AccountService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// SignupInput captures the details required to register a new account.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UpdateAccountInput enumerates the attributes mutable through profile update.
// Email, password, and verification state are immutable here.
type UpdateAccountInput struct {
	FirstName string
	LastName  string
}

// AccountService implements the signup, verify, login, update, and delete
// workflows over the persistent account store.
type AccountService struct {
	db      *gorm.DB
	tokens  *auth.JWTService
	mailer  mail.Mailer
	codeTTL time.Duration
	now     func() time.Time
	log     *zap.Logger
}

// NewAccountService constructs an AccountService with the provided dependencies.
// The mailer may be nil; verification codes are then only persisted.
func NewAccountService(db *gorm.DB, tokens *auth.JWTService, mailer mail.Mailer, opts ...AccountOption) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service: db is required")
	}
	if tokens == nil {
		return nil, errors.New("account service: jwt service is required")
	}

	service := &AccountService{
		db:      db,
		tokens:  tokens,
		mailer:  mailer,
		codeTTL: defaultCodeTTL,
		now:     time.Now,
		log:     logger.WithModule("accounts"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Signup registers a new account with a hashed password and a fresh
// verification code. Email uniqueness is enforced by the database constraint,
// not a pre-check, so concurrent signups for one email leave exactly one row.
func (s *AccountService) Signup(ctx context.Context, input SignupInput) (*models.Account, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := normalizeEmail(input.Email)

	if firstName == "" || lastName == "" {
		return nil, apperrors.NewBadRequest("first name and last name are required")
	}
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.NewBadRequest("password is required")
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account service: hash password: %w", err)
	}

	code, err := crypto.GenerateVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("account service: generate verification code: %w", err)
	}

	now := s.now()
	account := &models.Account{
		FirstName:        firstName,
		LastName:         lastName,
		Email:            email,
		Password:         hashed,
		VerificationCode: &code,
		CodeIssuedAt:     &now,
		IsVerified:       false,
	}

	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("account service: create account: %w", err)
	}

	s.sendVerificationEmail(ctx, account, code)

	return account, nil
}

// Verify flips an unverified account to verified when the submitted code
// matches the stored one. The code is consumed in the same write, so it can
// never be replayed.
func (s *AccountService) Verify(ctx context.Context, email string, code int) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	// A verified account has no stored code; any submission fails the match.
	if account.VerificationCode == nil {
		return apperrors.ErrCodeMismatch
	}

	now := s.now()
	if account.CodeIssuedAt != nil && now.Sub(*account.CodeIssuedAt) > s.codeTTL {
		return apperrors.ErrCodeExpired
	}

	if *account.VerificationCode != code {
		return apperrors.ErrCodeMismatch
	}

	// Guard on the unverified state so a concurrent verify cannot double-apply.
	result := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ? AND is_verified = ?", account.ID, false).
		Updates(map[string]any{
			"is_verified":       true,
			"verification_code": nil,
			"code_issued_at":    nil,
		})
	if result.Error != nil {
		return fmt.Errorf("account service: mark verified: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCodeMismatch
	}

	return nil
}

// Login authenticates a verified account and issues a signed session token.
// Ordering is fixed: existence, then verification state, then password.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *models.Account, error) {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if !account.IsVerified {
		return "", nil, apperrors.ErrNotVerified
	}

	if !crypto.VerifyPassword(account.Password, password) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(auth.AccessTokenInput{
		AccountID: account.ID,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
	})
	if err != nil {
		return "", nil, fmt.Errorf("account service: issue token: %w", err)
	}

	return token, account, nil
}

// Update overwrites the display names of an existing account.
func (s *AccountService) Update(ctx context.Context, id string, input UpdateAccountInput) (*models.Account, error) {
	account, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"first_name": strings.TrimSpace(input.FirstName),
		"last_name":  strings.TrimSpace(input.LastName),
	}

	if err := s.db.WithContext(ctx).Model(account).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("account service: update account: %w", err)
	}

	return account, nil
}

// Delete permanently removes an account and returns its prior state.
func (s *AccountService) Delete(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(account).Error; err != nil {
		return nil, fmt.Errorf("account service: delete account: %w", err)
	}

	return account, nil
}

// GetByID loads a single account by identifier.
func (s *AccountService) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return s.findByID(ctx, id)
}

// List returns all registered accounts.
func (s *AccountService) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.WithContext(ctx).Order("created_at").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("account service: list accounts: %w", err)
	}
	return accounts, nil
}

// ClearExpiredCodes removes stale verification codes from unverified accounts.
// Affected riders must sign up again to receive a fresh code.
func (s *AccountService) ClearExpiredCodes(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.codeTTL)

	result := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("is_verified = ? AND code_issued_at < ?", false, cutoff).
		Updates(map[string]any{
			"verification_code": nil,
			"code_issued_at":    nil,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("account service: clear expired codes: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (s *AccountService) findByEmail(ctx context.Context, email string) (*models.Account, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}

	var account models.Account
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("account service: find by email: %w", err)
	}
	return &account, nil
}

func (s *AccountService) findByID(ctx context.Context, id string) (*models.Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewBadRequest("account id is required")
	}

	var account models.Account
	err := s.db.WithContext(ctx).Take(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("account service: find by id: %w", err)
	}
	return &account, nil
}

func (s *AccountService) sendVerificationEmail(ctx context.Context, account *models.Account, code int) {
	if s.mailer == nil {
		return
	}

	msg := mail.Message{
		To:      account.Email,
		Subject: "Confirm your FindScooter account",
		Body: fmt.Sprintf("Hi %s,\n\nYour FindScooter verification code is %d.\n\nIf you did not create an account, you can ignore this message.\n",
			account.FirstName, code),
	}

	if err := s.mailer.Send(ctx, msg); err != nil && !errors.Is(err, mail.ErrSMTPDisabled) {
		// Delivery failure does not roll back the signup; the code stays
		// persisted and support can resend it.
		s.log.Warn("verification email delivery failed",
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
