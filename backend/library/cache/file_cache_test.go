package cache

import (
	"sync"
	"testing"
	"time"

	"abrino-storage/backend/model"

	"github.com/stretchr/testify/assert"
)

func TestFileCache_SetGetFiles(t *testing.T) {
	fc := NewFileCache(nil)

	files := []*model.File{
		{Name: "report.pdf", MimeType: "application/pdf", Category: "document"},
		{Name: "photo.png", MimeType: "image/png", Category: "image"},
	}
	fc.SetFiles(1, "all", "none", 0, 100, files)

	got, ok := fc.GetFiles(1, "all", "none", 0, 100)
	assert.True(t, ok)
	assert.Len(t, got, 2)
	assert.Equal(t, "report.pdf", got[0].Name)
}

func TestFileCache_MissOnDifferentQueryShape(t *testing.T) {
	fc := NewFileCache(nil)

	fc.SetFiles(1, "document", "", 0, 100, []*model.File{{Name: "a.pdf"}})

	_, ok := fc.GetFiles(1, "image", "", 0, 100)
	assert.False(t, ok)
	_, ok = fc.GetFiles(2, "document", "", 0, 100)
	assert.False(t, ok)
	_, ok = fc.GetFiles(1, "document", "", 10, 100)
	assert.False(t, ok)
}

func TestFileCache_InvalidateMakesEntriesUnreachable(t *testing.T) {
	fc := NewFileCache(nil)

	fc.SetFiles(7, "all", "none", 0, 100, []*model.File{{Name: "old.txt"}})
	fc.SetCategories(7, []string{"document"})

	fc.Invalidate(7)

	_, ok := fc.GetFiles(7, "all", "none", 0, 100)
	assert.False(t, ok, "file list cached before the mutation must not be served")
	_, ok = fc.GetCategories(7)
	assert.False(t, ok, "categories cached before the mutation must not be served")

	// Entries written after the bump are served normally.
	fc.SetFiles(7, "all", "none", 0, 100, []*model.File{{Name: "new.txt"}})
	got, ok := fc.GetFiles(7, "all", "none", 0, 100)
	assert.True(t, ok)
	assert.Equal(t, "new.txt", got[0].Name)
}

func TestFileCache_InvalidateIsPerUser(t *testing.T) {
	fc := NewFileCache(nil)

	fc.SetFiles(1, "all", "none", 0, 100, []*model.File{{Name: "mine.txt"}})
	fc.SetFiles(2, "all", "none", 0, 100, []*model.File{{Name: "theirs.txt"}})

	fc.Invalidate(1)

	_, ok := fc.GetFiles(1, "all", "none", 0, 100)
	assert.False(t, ok)
	got, ok := fc.GetFiles(2, "all", "none", 0, 100)
	assert.True(t, ok, "another user's entries survive the invalidation")
	assert.Equal(t, "theirs.txt", got[0].Name)
}

func TestFileCache_LocalEntryExpires(t *testing.T) {
	fc := NewFileCache(nil)

	fc.set("k", "v", 10*time.Millisecond)
	_, ok := fc.get("k")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = fc.get("k")
	assert.False(t, ok)
}

func TestFileCache_Categories(t *testing.T) {
	fc := NewFileCache(nil)

	_, ok := fc.GetCategories(3)
	assert.False(t, ok)

	fc.SetCategories(3, []string{"audio", "document"})
	got, ok := fc.GetCategories(3)
	assert.True(t, ok)
	assert.Equal(t, []string{"audio", "document"}, got)
}

func TestFileCache_VersionAdvancesOncePerMutation(t *testing.T) {
	fc := NewFileCache(nil)

	before := fc.version(11)
	fc.Invalidate(11)
	fc.Invalidate(11)
	assert.Equal(t, before+2, fc.version(11), "every mutation gets its own bump")
}

// Two writers invalidating at the same time must each advance the version;
// a collapsed bump would leave a listing cached mid-race reachable afterwards.
func TestFileCache_ConcurrentInvalidationsNeverCollapse(t *testing.T) {
	fc := NewFileCache(nil)
	const writers = 64

	before := fc.version(12)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fc.Invalidate(12)
		}()
	}
	wg.Wait()

	assert.Equal(t, before+writers, fc.version(12))
}

func TestGetFileCache_LocalModeWithoutRedis(t *testing.T) {
	fc := GetFileCache()

	fc.SetFiles(99, "all", "none", 0, 10, []*model.File{{Name: "x.bin"}})
	got, ok := fc.GetFiles(99, "all", "none", 0, 10)
	assert.True(t, ok)
	assert.Equal(t, "x.bin", got[0].Name)
}
