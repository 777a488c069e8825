// Package identity persists the remembered author email across sessions.
// It is a convenience for pre-filling forms and showing delete controls,
// not a security boundary: deletion is still gated by the email challenge.
package identity

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arduinolearn/commentboard/internal/comment"
)

// fileIdentity is the on-disk shape.
type fileIdentity struct {
	Email string `yaml:"email,omitempty"`
}

// identityPath returns the path to the identity file.
func identityPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "commentboard", "identity.yaml"), nil
}

// Load reads the remembered email from disk, normalized. Returns the
// empty string if nothing was remembered yet.
func Load() (string, error) {
	path, err := identityPath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading identity: %w", err)
	}

	var id fileIdentity
	if err := yaml.Unmarshal(data, &id); err != nil {
		return "", fmt.Errorf("parsing identity: %w", err)
	}

	return comment.NormalizeEmail(id.Email), nil
}

// Save writes the remembered email to disk, normalized.
func Save(email string) error {
	path, err := identityPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating identity directory: %w", err)
	}

	data, err := yaml.Marshal(fileIdentity{Email: comment.NormalizeEmail(email)})
	if err != nil {
		return fmt.Errorf("marshaling identity: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing identity: %w", err)
	}

	return nil
}

// Forget removes the remembered email.
func Forget() error {
	path, err := identityPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing identity: %w", err)
	}
	return nil
}
