package store

import (
	"encoding/base32"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gtodo-cli/internal/model"
)

const (
	FolderIDPrefix   = "fld"
	CategoryIDPrefix = "cat"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding)
// taken from the random bytes of a v4 uuid. 8 chars base32 ~= 40 bits of space.
func newRandomID(prefix string) string {
	u := uuid.New()
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	// Bytes 0-4 carry no version/variant bits.
	suffix := strings.ToLower(enc.EncodeToString(u[:5]))
	return prefix + "-" + suffix
}

// NewFolderID returns a folder id not used by any folder in db.
func NewFolderID(db *DB) string {
	for {
		id := newRandomID(FolderIDPrefix)
		if db.FolderIndex(id) < 0 {
			return id
		}
	}
}

// NewCategoryID returns a category id not used inside f.
func NewCategoryID(f *model.Folder) string {
	for {
		id := newRandomID(CategoryIDPrefix)
		taken := false
		for _, c := range f.Categories {
			if c.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}

// TodoClock hands out clock-based todo ids (unix milliseconds). Ids are strictly
// increasing within one clock and always above the largest id already in the store.
type TodoClock struct {
	mu   sync.Mutex
	last int64

	// Now defaults to time.Now.
	Now func() time.Time
}

func (c *TodoClock) Next(db *DB) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	id := now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	if max := db.MaxTodoID(); id <= max {
		id = max + 1
	}
	c.last = id
	return id
}
