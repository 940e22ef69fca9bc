// Package store holds the host-side setup operations: creating weddings,
// itineraries, households and guests, and removing them again.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
)

// TokenBytes is the entropy of an RSVP token before hex encoding.
const TokenBytes = 32

type Store struct {
	db       *gorm.DB
	validate *validator.Validate
	newToken func() (string, error)
}

func New(db *gorm.DB) *Store {
	v := validator.New(validator.WithRequiredStructEnabled())
	// required accepts "   "; names must carry at least one visible character
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &Store{
		db:       db,
		validate: v,
		newToken: NewRSVPToken,
	}
}

// NewRSVPToken returns an unguessable household token.
func NewRSVPToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate rsvp token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (s *Store) check(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
