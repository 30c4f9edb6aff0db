// Package security hashes the admin password with Argon2id and stores it in
// the PHC string format ($argon2id$v=19$m=..,t=..,p=..$salt$key).
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/havenfurnitures/storefront-api/pkg/config"
)

var (
	ErrInvalidHash         = errors.New("invalid argon2id hash")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

var b64 = base64.RawStdEncoding

// ArgonParams are the cost settings recorded in every hash.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

func (p ArgonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
}

// phc is a decoded hash string.
type phc struct {
	params ArgonParams
	salt   []byte
	key    []byte
}

func (h phc) String() string {
	return "$argon2id$v=" + strconv.Itoa(argon2.Version) +
		fmt.Sprintf("$m=%d,t=%d,p=%d$", h.params.Memory, h.params.Time, h.params.Parallelism) +
		b64.EncodeToString(h.salt) + "$" + b64.EncodeToString(h.key)
}

func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	params := paramsFromConfig(cfg)
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	return phc{params: params, salt: salt, key: params.derive(password, salt)}.String(), nil
}

// VerifyPassword recomputes the key with the parameters stored in encoded and
// compares in constant time. Errors mean the hash itself is unusable.
func VerifyPassword(password, encoded string) (bool, error) {
	h, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	candidate := h.params.derive(password, h.salt)
	return subtle.ConstantTimeCompare(h.key, candidate) == 1, nil
}

func parsePHC(encoded string) (phc, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	fields := strings.Split(strings.TrimSpace(encoded), "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return phc{}, ErrInvalidHash
	}

	version, ok := strings.CutPrefix(fields[2], "v=")
	if !ok {
		return phc{}, ErrInvalidHash
	}
	if v, err := strconv.Atoi(version); err != nil {
		return phc{}, ErrInvalidHash
	} else if v != argon2.Version {
		return phc{}, ErrIncompatibleVersion
	}

	var h phc
	if err := parseCost(fields[3], &h.params); err != nil {
		return phc{}, err
	}
	var err error
	if h.salt, err = b64.DecodeString(fields[4]); err != nil || len(h.salt) == 0 {
		return phc{}, ErrInvalidHash
	}
	if h.key, err = b64.DecodeString(fields[5]); err != nil || len(h.key) == 0 {
		return phc{}, ErrInvalidHash
	}
	h.params.SaltLen = uint32(len(h.salt))
	h.params.KeyLen = uint32(len(h.key))
	return h, nil
}

// parseCost reads "m=65536,t=3,p=2"; all three must be positive.
func parseCost(field string, into *ArgonParams) error {
	seen := map[string]uint64{}
	for _, pair := range strings.Split(field, ",") {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return ErrInvalidHash
		}
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || n == 0 {
			return ErrInvalidHash
		}
		seen[name] = n
	}
	m, t, p := seen["m"], seen["t"], seen["p"]
	if len(seen) != 3 || m == 0 || t == 0 || p == 0 || p > 255 {
		return ErrInvalidHash
	}
	into.Memory, into.Time, into.Parallelism = uint32(m), uint32(t), uint8(p)
	return nil
}

// paramsFromConfig clamps configured costs into fixed bounds.
func paramsFromConfig(cfg config.PasswordConfig) ArgonParams {
	bound := func(v, lo, hi int) int { return max(lo, min(v, hi)) }
	return ArgonParams{
		Memory:      uint32(bound(cfg.ArgonMemoryKB, 8, 512<<10)),
		Time:        uint32(bound(cfg.ArgonTime, 1, 10)),
		Parallelism: uint8(bound(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     uint32(bound(cfg.ArgonSaltLen, 8, 64)),
		KeyLen:      uint32(bound(cfg.ArgonKeyLen, 16, 64)),
	}
}
