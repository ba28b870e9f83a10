package invitecode

//go:generate mockgen -package=mocks -destination=mocks/mock_generator.go github.com/KirkDiggler/quizroom/internal/invitecode Generator

import (
	"math/rand"
	"sync"
	"time"
)

const (
	// DefaultLength matches the six character codes players type in
	DefaultLength = 6

	alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Generator produces candidate invite codes; uniqueness is enforced by the caller
type Generator interface {
	Generate() string
}

// Random produces invite codes from a seeded source
type Random struct {
	mu     sync.Mutex
	random *rand.Rand
	length int
}

// Config for the invite code generator
type Config struct {
	// Optional seed for testing
	Seed int64

	// Length of generated codes, DefaultLength when zero
	Length int
}

// New creates a new invite code generator
func New(cfg *Config) *Random {
	var seed int64
	length := DefaultLength
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}
	if cfg != nil && cfg.Length > 0 {
		length = cfg.Length
	}

	return &Random{
		random: rand.New(rand.NewSource(seed)),
		length: length,
	}
}

// Generate returns an upper-case code without look-alike characters (0/O, 1/I)
func (r *Random) Generate() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := make([]byte, r.length)
	for i := range code {
		code[i] = alphabet[r.random.Intn(len(alphabet))]
	}
	return string(code)
}
