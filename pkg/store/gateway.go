package store

import (
	"crypto/md5"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/todo/pkg/collection"
)

const (
	// DataFile is the collection store file inside the data directory.
	DataFile = "data.json"

	tempDir = ".tmp"
)

var (
	// ErrDirectoryCreation means the data directory could not be created.
	ErrDirectoryCreation = errors.New("store: cannot create data directory")
	// ErrSerialization means the store could not be encoded or written.
	ErrSerialization = errors.New("store: serialization failed")
	// ErrDeserialization means the data file could not be read or decoded.
	ErrDeserialization = errors.New("store: deserialization failed")
)

// Persistence is the contract the session needs from a gateway.
type Persistence interface {
	Save(records []collection.Record) error
	Load() ([]collection.Record, error)
	Path() string
}

// Gateway saves and restores the collection store as a JSON file. Writes go
// through a temp file and rename, so a failed save leaves the previous file
// intact.
type Gateway struct {
	d   *diskv.Diskv
	dir string

	mu      sync.Mutex
	lastSum [md5.Size]byte
	hasSum  bool
}

// Open creates the data directory (with parents) and returns a gateway for it.
func Open(cfg Config) (*Gateway, error) {
	dir, err := ResolveDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryCreation, err)
	}
	return OpenDir(dir)
}

// OpenDir returns a gateway rooted at dir.
func OpenDir(dir string) (*Gateway, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectoryCreation, dir, err)
	}
	return &Gateway{
		d: diskv.New(diskv.Options{
			BasePath:          dir,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			TempDir:           filepath.Join(dir, tempDir),
			CacheSizeMax:      0,
		}),
		dir: dir,
	}, nil
}

// Dir returns the data directory.
func (g *Gateway) Dir() string {
	return g.dir
}

// Path returns the full path of the data file.
func (g *Gateway) Path() string {
	return filepath.Join(g.dir, DataFile)
}

// Save overwrites the data file with records.
func (g *Gateway) Save(records []collection.Record) error {
	data, err := collection.MarshalList(records)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrSerialization, err)
	}
	if err := g.d.Write(DataFile, data); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrSerialization, g.Path(), err)
	}
	g.remember(data)
	return nil
}

// Load reads the data file. A missing file is the first run and yields an
// empty list.
func (g *Gateway) Load() ([]collection.Record, error) {
	data, err := g.d.Read(DataFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []collection.Record{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrDeserialization, g.Path(), err)
	}
	records, err := collection.UnmarshalList(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrDeserialization, g.Path(), err)
	}
	g.remember(data)
	return records, nil
}

// SaveStore saves a snapshot of s.
func (g *Gateway) SaveStore(s *collection.Store) error {
	return g.Save(s.Records())
}

// LoadStore loads the data file into a new store.
func (g *Gateway) LoadStore() (*collection.Store, error) {
	records, err := g.Load()
	if err != nil {
		return nil, err
	}
	return collection.FromRecords(records), nil
}

// remember records the digest of content this gateway wrote or read, so the
// watcher can tell our own writes from foreign ones.
func (g *Gateway) remember(data []byte) {
	sum := md5.Sum(data)
	g.mu.Lock()
	g.lastSum = sum
	g.hasSum = true
	g.mu.Unlock()
}

func (g *Gateway) isKnown(data []byte) bool {
	sum := md5.Sum(data)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hasSum && sum == g.lastSum
}

func keyToPathTransform(s string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: s,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}
