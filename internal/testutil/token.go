package testutil

// FixedTokenGenerator returns the same correlation token every time.
//
// Bridge calls carry a correlation token in their operation descriptor.
// Production code generates a fresh UUID per call; tests substitute this
// generator so descriptors, and therefore golden traces, are
// byte-identical across runs.
//
// Thread-safety: FixedTokenGenerator is stateless and safe for
// concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a generator that always returns token.
//
// If token is empty, Generate() returns "test-session-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-session-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed token.
//
// Implements ops.TokenGenerator.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
