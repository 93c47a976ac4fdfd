// Package library answers "is a level with this hash already installed?".
//
// MemoryIndex is a plain concurrency-safe set. DirIndex fills one by hashing
// every level directory under the content root the same way the game does,
// and can keep it current by watching the root for changes.
package library

import (
	"strings"
	"sync"
)

// Index is the local content lookup consulted before downloading.
type Index interface {
	// Contains reports whether a level with hash is installed.
	Contains(hash string) bool

	// Add records that dir holds the level with hash.
	Add(hash, dir string)
}

// MemoryIndex maps level hashes to directories. Hashes are compared
// case-insensitively. The zero value is not usable; call NewMemoryIndex.
type MemoryIndex struct {
	mu     sync.RWMutex
	byHash map[string]string
	byDir  map[string]string
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		byHash: make(map[string]string),
		byDir:  make(map[string]string),
	}
}

func normalize(hash string) string {
	return strings.ToUpper(strings.TrimSpace(hash))
}

// Contains implements Index.
func (m *MemoryIndex) Contains(hash string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byHash[normalize(hash)]
	return ok
}

// Add implements Index. A directory holds one level at a time; adding a new
// hash for a known directory forgets its previous hash.
func (m *MemoryIndex) Add(hash, dir string) {
	hash = normalize(hash)
	if hash == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.byDir[dir]; ok && old != hash {
		if m.byHash[old] == dir {
			delete(m.byHash, old)
		}
	}
	m.byHash[hash] = dir
	m.byDir[dir] = hash
}

// Remove forgets the level stored in dir.
func (m *MemoryIndex) Remove(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hash, ok := m.byDir[dir]; ok {
		if m.byHash[hash] == dir {
			delete(m.byHash, hash)
		}
		delete(m.byDir, dir)
	}
}

// Dir returns the directory recorded for hash.
func (m *MemoryIndex) Dir(hash string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dir, ok := m.byHash[normalize(hash)]
	return dir, ok
}

// Len returns the number of indexed levels.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byHash)
}
