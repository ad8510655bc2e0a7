// README: Credential store; file-or-env load, atomic snapshot cache, merge-on-save.
package keys

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// DefaultEndpoint is the DashScope text-generation endpoint used when the
// bundle does not override it.
const DefaultEndpoint = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

// Service owns the process-wide credential bundle. Reads are lock-free against
// an immutable snapshot; Save replaces the snapshot wholesale so concurrent
// readers never observe a half-merged bundle.
type Service struct {
	file string

	cur atomic.Pointer[ApiKeys]

	// mu serialises Save/Invalidate (writers only).
	mu sync.Mutex
}

// NewService creates a Service reading and writing the given bundle file.
func NewService(file string) *Service {
	return &Service{file: file}
}

// Snapshot returns the current bundle, loading it on first use. The returned
// value is a copy; callers must not assume later mutations are visible.
func (s *Service) Snapshot() ApiKeys {
	if k := s.cur.Load(); k != nil {
		return *k
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if k := s.cur.Load(); k != nil {
		return *k
	}
	k := s.load()
	s.cur.Store(&k)
	return k
}

// Invalidate drops the cached bundle so the next Snapshot re-reads the file.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.Store(nil)
}

// Save merges patch into the stored bundle, persists the result, and swaps the
// cache. Empty fields in patch leave existing values untouched.
func (s *Service) Save(patch ApiKeys) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.loadFile()
	merged := merge(base, patch)

	if err := os.MkdirAll(filepath.Dir(s.file), 0o755); err != nil {
		return fmt.Errorf("keys: create config dir: %w", err)
	}
	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("keys: marshal bundle: %w", err)
	}
	if err := os.WriteFile(s.file, data, 0o600); err != nil {
		return fmt.Errorf("keys: write bundle: %w", err)
	}

	s.cur.Store(&merged)
	return nil
}

// load reads the bundle file, falling back to process env when the file is
// absent or unreadable.
func (s *Service) load() ApiKeys {
	if k, err := s.readFile(); err == nil {
		return k
	}
	return fromEnv()
}

// loadFile reads the on-disk bundle for merging; a missing file merges against
// an empty bundle rather than env values so env fallbacks are never written out.
func (s *Service) loadFile() ApiKeys {
	k, err := s.readFile()
	if err != nil {
		return ApiKeys{}
	}
	return k
}

func (s *Service) readFile() (ApiKeys, error) {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return ApiKeys{}, err
	}
	var k ApiKeys
	if err := json.Unmarshal(data, &k); err != nil {
		return ApiKeys{}, errors.New("keys: malformed bundle file")
	}
	return k, nil
}

func fromEnv() ApiKeys {
	return ApiKeys{
		Xfyun: XfyunKeys{
			AppID:     os.Getenv("XFYUN_APP_ID"),
			APIKey:    os.Getenv("XFYUN_API_KEY"),
			APISecret: os.Getenv("XFYUN_API_SECRET"),
		},
		Amap: AmapKeys{
			Key: os.Getenv("AMAP_KEY"),
		},
		Aliyun: AliyunKeys{
			APIKey:    os.Getenv("ALIYUN_API_KEY"),
			APISecret: os.Getenv("ALIYUN_API_SECRET"),
			Endpoint:  os.Getenv("ALIYUN_ENDPOINT"),
		},
		Database: DatabaseKeys{
			URL: os.Getenv("ROAM_DATABASE_URL"),
			Key: os.Getenv("ROAM_DATABASE_KEY"),
		},
	}
}
