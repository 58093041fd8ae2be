// Package localauth keeps auth identities in the service's own database. It is
// used when no hosted auth service is configured.
package localauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"groceryMarket/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Provider struct {
	DB   *gorm.DB
	cost int
}

func NewProvider(db *gorm.DB) *Provider {
	return &Provider{
		DB:   db,
		cost: bcrypt.DefaultCost,
	}
}

func (p *Provider) CreateIdentity(ctx context.Context, email, password string, metadata map[string]string) (domain.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	meta := datatypes.JSONMap{}
	for k, v := range metadata {
		meta[k] = v
	}

	identity := domain.AuthIdentity{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Metadata:     meta,
		CreatedAt:    time.Now().UTC(),
	}

	if err := p.DB.WithContext(ctx).Create(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Identity{}, fmt.Errorf("email %w", domain.ErrConflict)
		}
		return domain.Identity{}, fmt.Errorf("failed to create identity: %w", err)
	}

	return domain.Identity{ID: identity.ID, Email: identity.Email}, nil
}

func (p *Provider) DeleteIdentity(ctx context.Context, id string) error {
	if err := p.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.AuthIdentity{}).Error; err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}

// SignInWithPassword returns ErrUnauthorized for both unknown emails and wrong
// passwords.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (domain.Identity, error) {
	var identity domain.AuthIdentity

	err := p.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Identity{}, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return domain.Identity{}, fmt.Errorf("failed to find identity: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return domain.Identity{}, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	return domain.Identity{ID: identity.ID, Email: identity.Email}, nil
}
