package main

import (
	crand "crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ojtool/internal/credstore"
	"ojtool/internal/transport"
	"ojtool/internal/watch"
)

type Options struct {
	// Judge is the registry ID of the venue to talk to.
	Judge string            `toml:"judge"`
	HTTP  transport.Options `toml:"http"`
	DB    credstore.Options `toml:"db"`
	Watch watch.Options     `toml:"watch"`
}

func (o *Options) FillDefaults() error {
	if o.Judge == "" {
		o.Judge = "codeforces"
	}
	if o.DB.Path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		o.DB.Path = filepath.Join(dir, "credstore.db")
	}
	return nil
}

type Secrets struct {
	// CredSecret and CredSalt feed key derivation for the credential
	// store. Generated on first run; changing them makes stored
	// credentials unreadable.
	CredSecret string `toml:"cred-secret"`
	CredSalt   string `toml:"cred-salt"`
}

// GenerateMissing fills absent secrets with fresh random values and
// reports whether anything changed, so the caller can rewrite the file.
func (s *Secrets) GenerateMissing() (bool, error) {
	changed := false
	for _, field := range []*string{&s.CredSecret, &s.CredSalt} {
		if *field != "" {
			continue
		}
		raw := make([]byte, 32)
		if _, err := io.ReadFull(crand.Reader, raw); err != nil {
			return false, fmt.Errorf("generate secret: %w", err)
		}
		*field = base64.StdEncoding.EncodeToString(raw)
		changed = true
	}
	return changed, nil
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	dir := filepath.Join(base, "ojtool")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

func defaultPath(name string) (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
