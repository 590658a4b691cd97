package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"blend65/internal/analysis"
)

// summarySchemaVersion invalidates every cached payload when the
// SummaryPayload format changes.
const summarySchemaVersion uint16 = 1

// Digest is a sha256 over one unit payload or a combined batch key.
type Digest [32]byte

// DigestBytes hashes raw bytes into a Digest.
func DigestBytes(data []byte) Digest {
	return Digest(sha256.Sum256(data))
}

// CombineDigests folds per-part digests into one key: H(d1 || d2 ...).
// The caller fixes the part order, so equal batches key equally.
func CombineDigests(parts ...Digest) Digest {
	h := sha256.New()
	for _, d := range parts {
		h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// SummaryPayload is the cached aggregate of one analyzed batch. It
// carries enough to render the summary block without re-analysis.
type SummaryPayload struct {
	Schema uint16

	Package string
	Failed  bool

	TotalSymbols int
	Units        int
	Errors       int
	Warnings     int

	Coverage float64
	Quality  float64

	ZeroPageCandidates int
	InlineCandidates   int

	ElapsedMS float64
}

// SummaryFromResult converts an analysis result for caching.
func SummaryFromResult(pkg string, res *analysis.Result) *SummaryPayload {
	return &SummaryPayload{
		Schema:             summarySchemaVersion,
		Package:            pkg,
		Failed:             res.Failed,
		TotalSymbols:       res.Summary.TotalSymbols,
		Units:              res.Summary.Units,
		Errors:             res.Summary.Errors,
		Warnings:           res.Summary.Warnings,
		Coverage:           res.Summary.OptimizationCoverage,
		Quality:            res.Summary.QualityScore,
		ZeroPageCandidates: len(res.Variables.ZeroPageCandidates),
		InlineCandidates:   len(res.Functions.InlineCandidates),
		ElapsedMS:          float64(res.Summary.Elapsed) / float64(time.Millisecond),
	}
}

// SummaryCache stores batch summaries on disk, keyed by content
// digest. Safe for concurrent use.
type SummaryCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenSummaryCache initializes and returns a cache at the standard
// location for app, honoring XDG_CACHE_HOME.
func OpenSummaryCache(app string) (*SummaryCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SummaryCache{dir: dir}, nil
}

// OpenSummaryCacheAt initializes a cache rooted at an explicit
// directory.
func OpenSummaryCacheAt(dir string) (*SummaryCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SummaryCache{dir: dir}, nil
}

func (c *SummaryCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "batches", hexKey+".mp")
}

// Put serializes and atomically writes a payload.
func (c *SummaryCache) Put(key Digest, payload *SummaryPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload for key. A missing entry or a schema mismatch is
// a miss, not an error.
func (c *SummaryCache) Get(key Digest, out *SummaryPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != summarySchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the whole cache.
func (c *SummaryCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
