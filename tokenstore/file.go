package tokenstore

import (
	"context"
	"crypto/pbkdf2"
	"crypto/sha256"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/errors/v5"
	"github.com/gorilla/securecookie"
)

const (
	// recordName binds the encoded value to its purpose so a value encoded
	// for something else never decodes as a refresh token.
	recordName = "officesession_refresh"

	// DefaultMaxAge is how long a remembered refresh token stays valid on disk.
	DefaultMaxAge = 30 * 24 * time.Hour

	// MinKeyLength is the minimum decoded length of a storage key.
	MinKeyLength = 64
)

type fileRecord struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// FilePersister keeps the refresh token in a file that survives restarts.
// The file content is encrypted and authenticated.
type FilePersister struct {
	path  string
	codec *securecookie.SecureCookie
}

// FileOption configures a FilePersister.
type FileOption func(*FilePersister)

// WithMaxAge bounds how long a stored token is accepted. (default: 30 days)
func WithMaxAge(d time.Duration) FileOption {
	return FileOption(func(f *FilePersister) {
		f.codec.MaxAge(int(d / time.Second))
	})
}

// NewFilePersister stores the token at path using keys derived from
// storageKey, a base64 encoded secret of at least MinKeyLength bytes.
func NewFilePersister(path, storageKey string, opts ...FileOption) (*FilePersister, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("token file path is required")
	}

	codec, err := newCodec(storageKey)
	if err != nil {
		return nil, errors.Wrap(err, "newCodec()")
	}

	f := &FilePersister{path: path, codec: codec}
	f.codec.MaxAge(int(DefaultMaxAge / time.Second))
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// GenerateStorageKey returns a new random storage key suitable for NewFilePersister.
func GenerateStorageKey() (string, error) {
	k := securecookie.GenerateRandomKey(MinKeyLength)
	if k == nil {
		return "", errors.New("failed to generate random key")
	}

	return base64.StdEncoding.EncodeToString(k), nil
}

func newCodec(storageKey string) (*securecookie.SecureCookie, error) {
	if storageKey == "" {
		return nil, errors.New("storage key is required")
	}

	k, err := base64.StdEncoding.DecodeString(storageKey)
	if err != nil {
		return nil, errors.Wrap(err, "base64.StdEncoding.DecodeString()")
	}
	if len(k) < MinKeyLength {
		return nil, errors.Newf("storage key too short. Expect minimum of %d bytes", MinKeyLength)
	}

	hashKey, err := pbkdf2.Key(sha256.New, string(k[:32]), k[32:40], 4096+int(k[40]), 64)
	if err != nil {
		return nil, errors.Wrap(err, "pbkdf2.Key()")
	}

	blockKey, err := pbkdf2.Key(sha256.New, string(k[32:64]), k[8:16], 4096+int(k[20]), 32)
	if err != nil {
		return nil, errors.Wrap(err, "pbkdf2.Key()")
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})

	return codec, nil
}

// Load returns the stored token. A file that cannot be decoded, because it
// was tampered with or has expired, is removed and reported as an error.
func (f *FilePersister) Load(_ context.Context) (string, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}

		return "", errors.Wrap(err, "os.ReadFile()")
	}

	var rec fileRecord
	if err := f.codec.Decode(recordName, strings.TrimSpace(string(b)), &rec); err != nil {
		_ = os.Remove(f.path)

		return "", errors.Wrap(err, "securecookie.SecureCookie.Decode()")
	}

	return rec.Token, nil
}

// Save writes the token, replacing any previous one.
func (f *FilePersister) Save(_ context.Context, token string) error {
	encoded, err := f.codec.Encode(recordName, fileRecord{Token: token, SavedAt: time.Now().UTC()})
	if err != nil {
		return errors.Wrap(err, "securecookie.SecureCookie.Encode()")
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "os.MkdirAll()")
	}

	tmp, err := os.CreateTemp(dir, ".refresh-*")
	if err != nil {
		return errors.Wrap(err, "os.CreateTemp()")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(encoded); err != nil {
		_ = tmp.Close()

		return errors.Wrap(err, "os.File.WriteString()")
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()

		return errors.Wrap(err, "os.File.Chmod()")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "os.File.Close()")
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Wrap(err, "os.Rename()")
	}

	return nil
}

// Delete removes the file. A missing file is not an error.
func (f *FilePersister) Delete(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "os.Remove()")
	}

	return nil
}
