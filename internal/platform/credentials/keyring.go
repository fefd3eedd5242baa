// Package credentials resolves API keys to principals from a YAML keyring file.
// Keys are stored as sha256 digests (or read from the environment) and the file is hot reloaded
package credentials

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"os"
	"strings"
	"sync/atomic"

	perr "launchdeck/internal/platform/errors"
	"launchdeck/internal/platform/logger"
	lnet "launchdeck/internal/platform/net"
	lstrings "launchdeck/internal/platform/strings"

	"gopkg.in/yaml.v3"
)

// Entry is one key in the keyring file
type Entry struct {
	Subject      string   `yaml:"subject"`
	KeySHA256    string   `yaml:"key_sha256,omitempty"`
	KeyEnv       string   `yaml:"key_env,omitempty"`
	Capabilities []string `yaml:"capabilities"`
}

// File is the keyring document
type File struct {
	Keys []Entry `yaml:"keys"`
}

type resolved struct {
	digest    []byte
	principal lnet.Principal
}

// Keyring is an AuthPort over a swappable set of keys
type Keyring struct {
	path string
	set  atomic.Pointer[[]resolved]
}

// HashKey returns the hex sha256 of key, the form stored in key_sha256
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// parse decodes and resolves a keyring document
func parse(data []byte) ([]resolved, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "keyring: invalid yaml")
	}
	out := make([]resolved, 0, len(f.Keys))
	for i, e := range f.Keys {
		subject := strings.TrimSpace(e.Subject)
		if subject == "" {
			return nil, perr.Validationf("keyring: keys[%d] has no subject", i)
		}
		digest, err := e.digest()
		if err != nil {
			return nil, perr.WithField(err, subject)
		}
		if digest == nil {
			logger.Named("credentials").Warn().Str("subject", subject).Str("env", e.KeyEnv).Msg("key env unset; entry skipped")
			continue
		}
		out = append(out, resolved{
			digest:    digest,
			principal: lnet.Principal{Subject: subject, Capabilities: lstrings.Compact(e.Capabilities)},
		})
	}
	return out, nil
}

// digest returns nil, nil when key_env names an unset variable
func (e Entry) digest() ([]byte, error) {
	switch {
	case e.KeySHA256 != "" && e.KeyEnv != "":
		return nil, perr.Validationf("keyring: %s sets both key_sha256 and key_env", e.Subject)
	case e.KeySHA256 != "":
		d, err := hex.DecodeString(strings.TrimSpace(e.KeySHA256))
		if err != nil || len(d) != sha256.Size {
			return nil, perr.Validationf("keyring: %s key_sha256 is not a sha256 hex digest", e.Subject)
		}
		return d, nil
	case e.KeyEnv != "":
		v := strings.TrimSpace(os.Getenv(e.KeyEnv))
		if v == "" {
			return nil, nil
		}
		sum := sha256.Sum256([]byte(v))
		return sum[:], nil
	default:
		return nil, perr.Validationf("keyring: %s needs key_sha256 or key_env", e.Subject)
	}
}

// Static builds an in memory keyring from plain keys; used by tests and the seed CLI
func Static(keys map[string]lnet.Principal) *Keyring {
	set := make([]resolved, 0, len(keys))
	for k, p := range keys {
		sum := sha256.Sum256([]byte(k))
		set = append(set, resolved{digest: sum[:], principal: p})
	}
	kr := &Keyring{}
	kr.set.Store(&set)
	return kr
}

// Open loads path into a new Keyring
func Open(path string) (*Keyring, error) {
	kr := &Keyring{path: path}
	if err := kr.Reload(); err != nil {
		return nil, err
	}
	return kr, nil
}

// Reload re-reads the file; on failure the current set stays active
func (k *Keyring) Reload() error {
	data, err := os.ReadFile(k.path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "keyring: read %s", k.path)
	}
	set, err := parse(data)
	if err != nil {
		return err
	}
	k.set.Store(&set)
	logger.Named("credentials").Info().Str("path", k.path).Int("keys", len(set)).Msg("keyring loaded")
	return nil
}

// Len returns the number of active keys
func (k *Keyring) Len() int {
	if s := k.set.Load(); s != nil {
		return len(*s)
	}
	return 0
}

// Authenticate resolves key to its principal. Every entry is compared so timing does not reveal a match position
func (k *Keyring) Authenticate(_ context.Context, key string) (lnet.Principal, error) {
	s := k.set.Load()
	if s == nil || key == "" {
		return lnet.Principal{}, perr.Unauthorizedf("invalid api key")
	}
	sum := sha256.Sum256([]byte(key))
	var (
		found lnet.Principal
		ok    bool
	)
	for _, r := range *s {
		if subtle.ConstantTimeCompare(sum[:], r.digest) == 1 && !ok {
			found, ok = r.principal, true
		}
	}
	if !ok {
		return lnet.Principal{}, perr.Unauthorizedf("invalid api key")
	}
	found.Capabilities = append([]string(nil), found.Capabilities...)
	return found, nil
}
