package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// BlobStore persists the session context as a single JSON blob under a fixed
// key. Implementations: FileStore, SQLiteStore, MemoryStore.
type BlobStore interface {
	// Read returns the blob for key, or (nil, nil) when the key is absent.
	Read(key string) ([]byte, error)
	// Write replaces the blob for key.
	Write(key string, data []byte) error
}

// MemoryStore is an in-process BlobStore. It backs tests and the degraded
// mode entered when the real store is unavailable.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Read implements BlobStore.
func (m *MemoryStore) Read(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), b...), nil
}

// Write implements BlobStore.
func (m *MemoryStore) Write(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), data...)
	return nil
}

// FileStore keeps each blob in its own JSON file under a state directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Read implements BlobStore.
func (f *FileStore) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session blob: %w", err)
	}
	return data, nil
}

// Write implements BlobStore. The write is atomic: temp file then rename.
func (f *FileStore) Write(key string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write session blob: %w", err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("failed to replace session blob: %w", err)
	}
	return nil
}

// Manager is the single serialized mutation point for session state. Every
// transform updates the in-memory context first and then writes through to
// the blob store; a failing store silently degrades to memory-only.
type Manager struct {
	mu    sync.RWMutex
	store BlobStore
	ctx   Context

	// degraded flips permanently when a write-through fails, so one broken
	// store does not produce a log line per keystroke.
	degraded bool

	now func() time.Time
}

// NewManager creates a manager over the given store. Pass a MemoryStore for
// an ephemeral session.
func NewManager(store BlobStore) *Manager {
	return &Manager{store: store, ctx: NewContext(), now: time.Now}
}

// Load reads the persisted context, applies defaults, increments the visit
// count, and writes the result back. Absent or unparsable blobs yield a
// fresh context.
func (m *Manager) Load() Context {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx := NewContext()
	if data, err := m.store.Read(StorageKey); err == nil && len(data) > 0 {
		var decoded Context
		if jsonErr := json.Unmarshal(data, &decoded); jsonErr == nil {
			ctx = decoded.withDefaults()
		}
	}
	ctx = ctx.clone()
	ctx.Visits++
	ctx.LastVisit = m.now()
	m.ctx = ctx
	m.persistLocked()
	return m.ctx
}

// Current returns a copy of the in-memory context.
func (m *Manager) Current() Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctx.clone()
}

// MarkScreen records that a screen was shown.
func (m *Manager) MarkScreen(id string) Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx = m.ctx.markScreen(id, m.now())
	m.persistLocked()
	return m.ctx
}

// SetPersonaPreference records a persona hint tag.
func (m *Manager) SetPersonaPreference(hint string) Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx = m.ctx.addPersonaHint(hint)
	m.persistLocked()
	return m.ctx
}

// SetUILanguage sets the interface language and dismisses the picker.
func (m *Manager) SetUILanguage(lang Language) Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctx := m.ctx.clone()
	ctx.UILanguage = lang
	ctx.ShowLanguagePicker = false
	m.ctx = ctx
	m.persistLocked()
	return m.ctx
}

// ShowLanguageSelection flags the language picker for display.
func (m *Manager) ShowLanguageSelection() Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctx := m.ctx.clone()
	ctx.ShowLanguagePicker = true
	m.ctx = ctx
	m.persistLocked()
	return m.ctx
}

func (m *Manager) persistLocked() {
	if m.degraded {
		return
	}
	data, err := json.MarshalIndent(m.ctx, "", "  ")
	if err != nil {
		m.degraded = true
		return
	}
	if err := m.store.Write(StorageKey, data); err != nil {
		m.degraded = true
	}
}
