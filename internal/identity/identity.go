// Package identity owns the per-installation user token that keys remote rows.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/energy-calculator/internal/store"
)

const StorageKey = "energyUserId"

type Store interface {
	Load(key string, v any) error
	Save(key string, v any) error
}

// LoadOrCreate returns the persisted token, generating and saving a new one on
// first use. A token that cannot be persisted is still returned for this run.
func LoadOrCreate(s Store) (string, error) {
	var token string
	err := s.Load(StorageKey, &token)
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Warn().Err(err).Msg("Stored user id unreadable, generating a new one")
	}

	token = New(time.Now())
	if err := s.Save(StorageKey, token); err != nil {
		return token, fmt.Errorf("persist user id: %w", err)
	}
	log.Info().Str("user_id", token).Msg("Generated new user id")
	return token, nil
}

// New builds a token of the form user_<unix-ms>_<9 random chars>.
func New(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("user_%d_%s", now.UnixMilli(), random)
}
