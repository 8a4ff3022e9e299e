// Package auth manages guardian accounts and bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/mathmentor/internal/docstore"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	ErrInvalidEmail       = errors.New("invalid email address")
)

// User is the signed-in guardian.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Config configures the Service.
type Config struct {
	Secret   []byte
	TokenTTL time.Duration
}

// Service signs guardians up and in, and issues and revokes tokens.
type Service struct {
	docs     docstore.Store
	revoked  RevocationStore
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	hashCost int

	// signupMu serializes the check-then-write on the email index.
	signupMu sync.Mutex
}

// NewService creates an auth service backed by docs.
func NewService(docs docstore.Store, revoked RevocationStore, cfg Config) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		docs:     docs,
		revoked:  revoked,
		secret:   cfg.Secret,
		ttl:      ttl,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

// SignUp creates an account and returns a token for it.
func (s *Service) SignUp(ctx context.Context, email, password string) (User, string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return User{}, "", err
	}
	if len(password) < MinPasswordLen {
		return User{}, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return User{}, "", fmt.Errorf("hash password: %w", err)
	}

	s.signupMu.Lock()
	defer s.signupMu.Unlock()

	indexPath := docstore.GuardianEmailPath(email)
	if _, err := s.docs.Read(ctx, indexPath); err == nil {
		return User{}, "", ErrEmailTaken
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return User{}, "", fmt.Errorf("check email: %w", err)
	}

	user := User{UID: uuid.NewString(), Email: email}
	account, err := docstore.Encode(docstore.GuardianRecord{
		UID:          user.UID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return User{}, "", err
	}
	if err := s.docs.Write(ctx, docstore.GuardianPath(user.UID), account, docstore.WriteOptions{}); err != nil {
		return User{}, "", fmt.Errorf("create account: %w", err)
	}

	index, err := docstore.Encode(docstore.EmailIndexRecord{UID: user.UID})
	if err != nil {
		return User{}, "", err
	}
	if err := s.docs.Write(ctx, indexPath, index, docstore.WriteOptions{}); err != nil {
		return User{}, "", fmt.Errorf("index email: %w", err)
	}

	token, err := s.issue(user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// SignIn checks the credentials and returns a new token.
func (s *Service) SignIn(ctx context.Context, email, password string) (User, string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	account, err := s.lookup(ctx, email)
	if err != nil {
		return User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	user := User{UID: account.UID, Email: account.Email}
	token, err := s.issue(user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// SignOut revokes the token until it would have expired.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	until := s.now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.revoked.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// CurrentUser resolves a token to its guardian.
func (s *Service) CurrentUser(ctx context.Context, token string) (User, error) {
	claims, err := s.parse(token)
	if err != nil {
		return User{}, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return User{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return User{}, ErrInvalidToken
	}
	return User{UID: claims.UID, Email: claims.Email}, nil
}

func (s *Service) lookup(ctx context.Context, email string) (docstore.GuardianRecord, error) {
	var account docstore.GuardianRecord

	rec, err := s.docs.Read(ctx, docstore.GuardianEmailPath(email))
	if errors.Is(err, docstore.ErrNotFound) {
		return account, ErrInvalidCredentials
	} else if err != nil {
		return account, fmt.Errorf("read email index: %w", err)
	}
	var index docstore.EmailIndexRecord
	if err := docstore.Decode(rec, &index); err != nil {
		return account, err
	}

	rec, err = s.docs.Read(ctx, docstore.GuardianPath(index.UID))
	if errors.Is(err, docstore.ErrNotFound) {
		return account, ErrInvalidCredentials
	} else if err != nil {
		return account, fmt.Errorf("read account: %w", err)
	}
	if err := docstore.Decode(rec, &account); err != nil {
		return account, err
	}
	return account, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
