// Package vault implements the host document-store capabilities on top of a
// local markdown vault directory.
package vault

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"voicenote/internal/ports"
)

// FS is a filesystem-backed ports.Vault rooted at a vault directory.
type FS struct {
	root   string
	logger *zap.Logger
}

var _ ports.Vault = (*FS)(nil)

func New(root string, logger *zap.Logger) *FS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FS{root: root, logger: logger}
}

// Normalize converts a host path into the canonical vault form: forward
// slashes, cleaned, relative to the vault root.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

func (v *FS) Read(p string) (string, error) {
	data, err := os.ReadFile(v.abs(p))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", Normalize(p), err)
	}
	return string(data), nil
}

func (v *FS) Create(p string, content string) error {
	return v.write(p, []byte(content))
}

func (v *FS) CreateBinary(p string, data []byte) error {
	return v.write(p, data)
}

func (v *FS) Modify(p string, content string) error {
	target := v.abs(p)
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("modify %s: %w", Normalize(p), err)
	}
	return v.write(p, []byte(content))
}

func (v *FS) Mkdir(p string) error {
	if err := os.MkdirAll(v.abs(p), 0o755); err != nil {
		return fmt.Errorf("create folder %s: %w", Normalize(p), err)
	}
	return nil
}

func (v *FS) Exists(p string) bool {
	_, err := os.Stat(v.abs(p))
	return err == nil
}

func (v *FS) write(p string, data []byte) error {
	target := v.abs(p)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", Normalize(p), err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", Normalize(p), err)
	}
	v.logger.Debug("vault write", zap.String("path", Normalize(p)), zap.Int("bytes", len(data)))
	return nil
}

func (v *FS) abs(p string) string {
	return filepath.Join(v.root, filepath.FromSlash(Normalize(p)))
}
