package gameid

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/coder/quartz"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded game ID
const Length = 26

// Generator creates time-sortable game IDs. The clock and the random reader
// are injectable so tests can produce predictable IDs.
type Generator struct {
	clock  quartz.Clock
	random io.Reader
}

// NewGenerator creates a generator. A nil clock uses the real clock and a nil
// reader uses crypto/rand.
func NewGenerator(clock quartz.Clock, random io.Reader) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if random == nil {
		random = rand.Reader
	}
	return &Generator{clock: clock, random: random}
}

// Generate creates a new game ID using the real clock and crypto/rand
func Generate() (string, error) {
	return NewGenerator(nil, nil).Generate()
}

// Generate creates a new game ID using UUIDv7 encoded as 26-character base32 string
func (g *Generator) Generate() (string, error) {
	uuid, err := g.uuidV7()
	if err != nil {
		return "", err
	}
	return encodeBase32(uuid), nil
}

// uuidV7 lays out a 48-bit millisecond timestamp, version 7, variant 10 and
// random data in the remaining bits.
func (g *Generator) uuidV7() ([16]byte, error) {
	var uuid [16]byte

	now := g.clock.Now().UnixMilli()
	for i := 0; i < 6; i++ {
		uuid[i] = byte(now >> (40 - 8*i))
	}

	if _, err := io.ReadFull(g.random, uuid[6:]); err != nil {
		return uuid, fmt.Errorf("read random bytes: %w", err)
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80
	return uuid, nil
}

// encodeBase32 writes the 128 bits as 26 five-bit groups after two leading
// zero bits, so the first character is always 0-7.
func encodeBase32(data [16]byte) string {
	result := make([]byte, Length)
	for i := range result {
		var value uint8
		for bit := 0; bit < 5; bit++ {
			value <<= 1
			pos := i*5 + bit - 2
			if pos >= 0 && data[pos/8]&(0x80>>(pos%8)) != 0 {
				value |= 1
			}
		}
		result[i] = alphabet[value]
	}
	return string(result)
}

func decodeBase32(id string) ([16]byte, error) {
	var data [16]byte
	for i := 0; i < len(id); i++ {
		value := strings.IndexByte(alphabet, id[i])
		if value < 0 {
			return data, fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
		for bit := 0; bit < 5; bit++ {
			pos := i*5 + bit - 2
			if pos >= 0 && value&(0x10>>bit) != 0 {
				data[pos/8] |= 0x80 >> (pos % 8)
			}
		}
	}
	return data, nil
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}

	// A first character above 7 would need more than 128 bits
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}

	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}

// Timestamp returns the creation time embedded in a game ID, at millisecond
// precision.
func Timestamp(id string) (time.Time, error) {
	if err := Validate(id); err != nil {
		return time.Time{}, err
	}
	data, err := decodeBase32(id)
	if err != nil {
		return time.Time{}, err
	}

	var ms int64
	for i := 0; i < 6; i++ {
		ms = ms<<8 | int64(data[i])
	}
	return time.UnixMilli(ms), nil
}
