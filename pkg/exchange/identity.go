package exchange

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/backkem/teleclient/pkg/message"
)

// DefaultTokenLength is the token size issued by NewProcessIdentity.
const DefaultTokenLength = 1

// Identity is the pair that correlates a response with its request.
type Identity struct {
	MessageID uint16
	Token     []byte
}

// IdentityGenerator issues exchange identities.
// Implementations must be safe for concurrent use.
type IdentityGenerator interface {
	Next() Identity
}

// Stamp assigns the next identity from g to m and returns it.
// Call it once per exchange, before Client.Send.
func Stamp(m *message.Message, g IdentityGenerator) Identity {
	id := g.Next()
	m.MessageID = id.MessageID
	m.Token = append([]byte(nil), id.Token...)
	return id
}

// RandomIdentity draws message IDs and tokens from a pseudo-random source.
// The source is explicit state: tests inject a fixed seed, the command line
// uses NewProcessIdentity once per process.
type RandomIdentity struct {
	mu       sync.Mutex
	rng      *rand.Rand
	tokenLen int
}

// NewRandomIdentity creates a generator over src issuing tokens of tokenLen
// bytes. tokenLen is clamped to 1..message.MaxTokenSize.
func NewRandomIdentity(src rand.Source, tokenLen int) *RandomIdentity {
	tokenLen = max(1, min(tokenLen, message.MaxTokenSize))
	return &RandomIdentity{
		rng:      rand.New(src),
		tokenLen: tokenLen,
	}
}

// NewProcessIdentity creates a generator seeded from the wall clock and the
// system random source, issuing 1-byte tokens.
func NewProcessIdentity() *RandomIdentity {
	var seed [8]byte
	crand.Read(seed[:])
	src := rand.NewPCG(uint64(time.Now().UnixNano()), binary.BigEndian.Uint64(seed[:]))
	return NewRandomIdentity(src, DefaultTokenLength)
}

// Next returns a fresh identity.
func (g *RandomIdentity) Next() Identity {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := Identity{
		MessageID: uint16(g.rng.Uint32()),
		Token:     make([]byte, g.tokenLen),
	}
	for i := range id.Token {
		id.Token[i] = byte(g.rng.Uint32())
	}
	return id
}

// TokenLength returns the size of issued tokens.
func (g *RandomIdentity) TokenLength() int {
	return g.tokenLen
}

// FixedIdentity always returns the same identity.
type FixedIdentity Identity

// Next returns a copy of the fixed identity.
func (f FixedIdentity) Next() Identity {
	return Identity{
		MessageID: f.MessageID,
		Token:     append([]byte(nil), f.Token...),
	}
}

var (
	_ IdentityGenerator = (*RandomIdentity)(nil)
	_ IdentityGenerator = FixedIdentity{}
)
