// Package unlock guards encrypted categories behind a passphrase.
package unlock

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/treykane/paneboard/internal/logging"
)

var (
	ErrDenied = errors.New("passphrase rejected")

	log = logging.New("unlock")
)

// Guard checks passphrases against a bcrypt hash and remembers which
// categories were unlocked for the rest of the session. Without a configured
// hash every category is open.
type Guard struct {
	hash []byte

	mu       sync.Mutex
	unlocked map[string]bool
}

// NewGuard returns a guard for the stored hash; empty disables locking.
func NewGuard(hash string) *Guard {
	return &Guard{
		hash:     []byte(strings.TrimSpace(hash)),
		unlocked: map[string]bool{},
	}
}

// HashPassphrase produces the value stored in the config file.
func HashPassphrase(passphrase string) (string, error) {
	if strings.TrimSpace(passphrase) == "" {
		return "", errors.New("passphrase is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash passphrase: %w", err)
	}
	return string(hash), nil
}

// Enabled reports whether a passphrase is configured.
func (g *Guard) Enabled() bool {
	return len(g.hash) > 0
}

// NeedsChallenge reports whether opening the category must prompt first.
func (g *Guard) NeedsChallenge(categoryID string, encrypted bool) bool {
	if !encrypted || !g.Enabled() {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.unlocked[categoryID]
}

// Unlock checks passphrase and remembers the category on success. bcrypt is
// slow; callers run it off the UI goroutine.
func (g *Guard) Unlock(categoryID, passphrase string) error {
	if !g.Enabled() {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(passphrase)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Warn("unlock denied", "category", categoryID)
			return ErrDenied
		}
		return fmt.Errorf("check passphrase: %w", err)
	}
	g.mu.Lock()
	g.unlocked[categoryID] = true
	g.mu.Unlock()
	log.Info("category unlocked", "category", categoryID)
	return nil
}

// LockAll forgets every unlocked category.
func (g *Guard) LockAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unlocked = map[string]bool{}
}
