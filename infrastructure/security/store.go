package security

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ACLStore persists the ACL data. Implementations must tolerate repeated
// saves; failures are handled (logged and absorbed) by the provider.
type ACLStore interface {
	Load() (*ACLData, error)
	Save(data *ACLData) error
}

// FileACLStore persists the ACL data as a JSON file. Saves run behind a
// circuit breaker so a persistently broken disk stops being hammered while
// permission checks keep serving from memory.
type FileACLStore struct {
	path    string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewFileACLStore creates a file-backed ACL store
func NewFileACLStore(path string, logger *zap.Logger) *FileACLStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "acl-store",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("ACL store breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &FileACLStore{path: path, breaker: breaker, logger: logger}
}

// Load reads the ACL data from disk
func (s *FileACLStore) Load() (*ACLData, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var data ACLData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Save writes the ACL data to disk through the circuit breaker
func (s *FileACLStore) Save(data *ACLData) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return nil, err
		}

		raw, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, err
		}

		// write-then-rename so a crashed save never corrupts the store
		tmp := s.path + ".tmp"
		if err := os.WriteFile(tmp, raw, 0o644); err != nil {
			return nil, err
		}
		return nil, os.Rename(tmp, s.path)
	})
	return err
}

// MemoryACLStore keeps the ACL data in memory only. Used in tests and when
// no store path is configured.
type MemoryACLStore struct {
	data *ACLData
}

// NewMemoryACLStore creates an empty in-memory ACL store
func NewMemoryACLStore() *MemoryACLStore {
	return &MemoryACLStore{}
}

// Load returns the stored data, or an error when nothing was saved yet
func (s *MemoryACLStore) Load() (*ACLData, error) {
	if s.data == nil {
		return nil, os.ErrNotExist
	}
	return s.data, nil
}

// Save retains the data in memory
func (s *MemoryACLStore) Save(data *ACLData) error {
	s.data = data
	return nil
}
