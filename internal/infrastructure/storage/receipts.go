// Package storage guarda los comprobantes PDF en un directorio local.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jhoicas/Ventas-api/internal/application/report"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

var _ report.ReceiptStore = (*DirStore)(nil)

// DirStore comprobantes como archivos planos bajo dir. Los nombres ya vienen validados
// por report.ValidReceiptName; aquí solo se usa su base.
type DirStore struct {
	dir string
}

// NewDirStore crea el directorio si no existe.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", dir, err)
	}
	return &DirStore{dir: dir}, nil
}

// Save escribe en un temporal y renombra, para no dejar archivos a medias.
func (s *DirStore) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.path(name)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: escribir %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: escribir %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("storage: guardar %s: %w", name, err)
	}
	return nil
}

// Open lee un comprobante; domain.ErrNotFound si no existe.
func (s *DirStore) Open(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: leer %s: %w", name, err)
	}
	return data, nil
}

func (s *DirStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}
