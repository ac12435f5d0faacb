package store

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/twa-market/marketplace-go-app/internal/models"
)

// snapshot is the on-disk layout of the file store
type snapshot struct {
	Version   int              `json:"version"`
	Deals     []models.Deal    `json:"deals"`
	Products  []models.Product `json:"products"`
	Favorites []string         `json:"favorites"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// FileStore keeps the full data set in memory and flushes it to a single
// JSON file on every write. Suitable for the demo deployment; concurrent
// processes sharing one file are last-write-wins.
type FileStore struct {
	mu   sync.RWMutex
	file *os.File
	snap *snapshot
	path string
}

// OpenFileStore opens (or creates and seeds) the snapshot file at path
func OpenFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	fs := &FileStore{file: f, path: path}
	if err := fs.load(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return fs, nil
}

// Close closes the underlying file
func (fs *FileStore) Close() error { return fs.file.Close() }

func (fs *FileStore) load() error {
	info, err := fs.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		now := time.Now()
		fs.snap = &snapshot{
			Version:   1,
			Deals:     SeedDeals(),
			Products:  SeedProducts(),
			Favorites: []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return fs.flushLocked()
	}
	dec := json.NewDecoder(fs.file)
	var snap snapshot
	if err := dec.Decode(&snap); err != nil {
		return err
	}
	fs.snap = &snap
	return nil
}

func (fs *FileStore) flushLocked() error {
	if _, err := fs.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	enc := json.NewEncoder(fs.file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fs.snap); err != nil {
		return err
	}
	// truncate in case new content is shorter
	pos, _ := fs.file.Seek(0, io.SeekCurrent)
	if err := fs.file.Truncate(pos); err != nil {
		return err
	}
	return fs.file.Sync()
}

func (fs *FileStore) withWrite(ctx context.Context, fn func(*snapshot) error) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if err := fn(fs.snap); err != nil {
		return err
	}
	fs.snap.UpdatedAt = time.Now()
	return fs.flushLocked()
}

func (fs *FileStore) withRead(fn func(*snapshot) error) error {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fn(fs.snap)
}

// ListDeals returns all deals, newest first
func (fs *FileStore) ListDeals(ctx context.Context) ([]models.Deal, error) {
	var out []models.Deal
	err := fs.withRead(func(s *snapshot) error {
		out = make([]models.Deal, len(s.Deals))
		copy(out, s.Deals)
		return nil
	})
	return out, err
}

// GetDeal returns the deal with the given id
func (fs *FileStore) GetDeal(ctx context.Context, id string) (*models.Deal, error) {
	var out *models.Deal
	err := fs.withRead(func(s *snapshot) error {
		for i := range s.Deals {
			if s.Deals[i].ID == id {
				d := s.Deals[i]
				out = &d
				return nil
			}
		}
		return ErrNotFound
	})
	return out, err
}

// CreateDeal appends a new deal
func (fs *FileStore) CreateDeal(ctx context.Context, d *models.Deal) error {
	return fs.withWrite(ctx, func(s *snapshot) error {
		for i := range s.Deals {
			if s.Deals[i].ID == d.ID {
				return os.ErrExist
			}
		}
		s.Deals = append(s.Deals, *d)
		return nil
	})
}

// UpdateDeal replaces the stored deal with the same id
func (fs *FileStore) UpdateDeal(ctx context.Context, d *models.Deal) error {
	return fs.withWrite(ctx, func(s *snapshot) error {
		for i := range s.Deals {
			if s.Deals[i].ID == d.ID {
				s.Deals[i] = *d
				return nil
			}
		}
		return ErrNotFound
	})
}

// ListProducts returns the catalog in insertion order
func (fs *FileStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := fs.withRead(func(s *snapshot) error {
		out = make([]models.Product, len(s.Products))
		copy(out, s.Products)
		return nil
	})
	return out, err
}

// GetProduct returns the product with the given id
func (fs *FileStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var out *models.Product
	err := fs.withRead(func(s *snapshot) error {
		for i := range s.Products {
			if s.Products[i].ID == id {
				p := s.Products[i]
				out = &p
				return nil
			}
		}
		return ErrNotFound
	})
	return out, err
}

// ListFavorites returns the favorited product ids
func (fs *FileStore) ListFavorites(ctx context.Context) ([]string, error) {
	var out []string
	err := fs.withRead(func(s *snapshot) error {
		out = make([]string, len(s.Favorites))
		copy(out, s.Favorites)
		return nil
	})
	return out, err
}

// AddFavorite adds productID to the favorites set; adding twice is a no-op
func (fs *FileStore) AddFavorite(ctx context.Context, productID string) error {
	return fs.withWrite(ctx, func(s *snapshot) error {
		for _, id := range s.Favorites {
			if id == productID {
				return nil
			}
		}
		s.Favorites = append(s.Favorites, productID)
		return nil
	})
}

// RemoveFavorite removes productID from the favorites set if present
func (fs *FileStore) RemoveFavorite(ctx context.Context, productID string) error {
	return fs.withWrite(ctx, func(s *snapshot) error {
		for i, id := range s.Favorites {
			if id == productID {
				s.Favorites = append(s.Favorites[:i], s.Favorites[i+1:]...)
				return nil
			}
		}
		return nil
	})
}
