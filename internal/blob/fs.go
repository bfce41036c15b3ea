package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
	"github.com/orgball2608/events-telegram-bot/pkg/config"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/spf13/afero"
)

var ErrBadRef = errors.New("invalid media reference")

var extPattern = regexp.MustCompile(`^[a-z0-9]{1,8}$`)

// FS keeps blobs as flat files named <uuid>.<ext> under one directory.
type FS struct {
	fs     afero.Fs
	dir    string
	logger logger.Logger
}

func NewFS(fs afero.Fs, dir string, logger logger.Logger) (*FS, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &FS{fs: fs, dir: dir, logger: logger.WithComponent("BlobStore")}, nil
}

func NewFSFromConfig(cfg *config.Config, logger logger.Logger) (*FS, error) {
	return NewFS(afero.NewOsFs(), cfg.Storage.MediaDir, logger)
}

var _ Store = (*FS)(nil)

func (s *FS) Save(ctx context.Context, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := uuid.NewString() + "." + cleanExt(ext)
	if err := checkRef(ref); err != nil {
		return "", err
	}
	if err := afero.WriteFile(s.fs, path.Join(s.dir, ref), data, 0o644); err != nil {
		return "", apperrors.WrapWithCode(err, apperrors.CodeBlob, "write media "+ref)
	}

	s.logger.Debug("Saved media", "ref", ref, "size", len(data))
	return ref, nil
}

func (s *FS) Fetch(ctx context.Context, ref string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if err := checkRef(ref); err != nil {
		return nil, false, err
	}

	data, err := afero.ReadFile(s.fs, path.Join(s.dir, ref))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, apperrors.WrapWithCode(err, apperrors.CodeBlob, "read media "+ref)
	}
	return data, true, nil
}

func (s *FS) Delete(ctx context.Context, ref string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := checkRef(ref); err != nil {
		return false, err
	}

	err := s.fs.Remove(path.Join(s.dir, ref))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, apperrors.WrapWithCode(err, apperrors.CodeBlob, "remove media "+ref)
	}
	return true, nil
}

// cleanExt accepts short alphanumeric extensions only. Anything else comes
// from the sender and is stored as "bin".
func cleanExt(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if !extPattern.MatchString(ext) {
		return "bin"
	}
	return ext
}

// checkRef keeps references inside the media directory.
func checkRef(ref string) error {
	if ref == "" || strings.ContainsAny(ref, `/\`) || strings.HasPrefix(ref, ".") {
		return ErrBadRef
	}
	return nil
}
