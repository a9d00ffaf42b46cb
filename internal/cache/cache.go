package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/shivarm/code-guardian/internal/types"
)

// FileName is the cache file name when stored at the repository root.
const FileName = ".codeguardiancache.json"

// Entry records the content hash of a file and the secret findings it
// produced under the rule set identified by DB.Rules.
type Entry struct {
	Hash     string          `json:"hash"`
	Findings []types.Finding `json:"findings,omitempty"`
}

type DB struct {
	// Fingerprint of the compiled rule set; entries are void if it differs.
	Rules string `json:"rules"`
	// Path relative to repo root -> cached entry
	Entries map[string]Entry `json:"entries"`
}

// Lookup returns the cached findings for rel when the content hash and the
// rule fingerprint both match.
func (db DB) Lookup(rel, hash, rules string) ([]types.Finding, bool) {
	if db.Rules != rules || db.Entries == nil {
		return nil, false
	}
	e, ok := db.Entries[rel]
	if !ok || e.Hash != hash {
		return nil, false
	}
	return e.Findings, true
}

// Path returns where the cache for root lives: under .git when present to
// avoid accidental commits, otherwise at the repo root.
func Path(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "codeguardiancache.json")
	}
	return filepath.Join(root, FileName)
}

func Load(root string) (DB, error) {
	var db DB
	f, err := os.ReadFile(Path(root))
	if err != nil {
		return DB{Entries: map[string]Entry{}}, err
	}
	if err := json.Unmarshal(f, &db); err != nil {
		return DB{Entries: map[string]Entry{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]Entry{}
	}
	return db, nil
}

func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(root), b, 0644)
}

// Hash returns a fixed-width hex xxhash of b.
func Hash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
