package cache

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/dictload/internal/compress"
	"github.com/hupe1980/dictload/internal/conv"
	"github.com/hupe1980/dictload/internal/fs"
)

const (
	diskSchemaFile    = "SCHEMA"
	diskSchemaVersion = "dictload-shards v1\n"
	diskEntryExt      = ".ent"
	maxKeyLen         = 1 << 16
)

var diskEntryMagic = [4]byte{'D', 'L', 'C', '1'}

// DiskConfig holds configuration for the disk store.
type DiskConfig struct {
	// RootDir is the directory where entry files are stored.
	// Destroy removes it entirely.
	RootDir string
	// Compression is applied to values on Put. Reads detect the codec per entry.
	Compression Compression
}

// DiskOpener opens a persistent store backed by the local filesystem.
//
// Entry layout: <RootDir>/<xxhash64(key) hex>.ent holding
// [magic "DLC1"][uvarint keyLen][key][compress frame].
// The literal key is stored in the entry; a hash collision reads as a miss.
type DiskOpener struct {
	cfg  DiskConfig
	fs   fs.FileSystem
	refs handles
}

// NewDiskOpener creates a DiskOpener.
func NewDiskOpener(cfg DiskConfig) *DiskOpener {
	return &DiskOpener{cfg: cfg, fs: fs.Default}
}

// Open creates the root directory and schema marker if needed.
func (o *DiskOpener) Open(ctx context.Context) (Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.cfg.RootDir == "" {
		return nil, errors.New("cache: disk store requires a root directory")
	}

	var s *diskStore
	err := o.refs.acquire(func() error {
		if err := o.ensureSchema(); err != nil {
			return err
		}
		s = &diskStore{
			fs:          o.fs,
			rootDir:     o.cfg.RootDir,
			compression: o.cfg.Compression,
			release:     o.refs.release,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (o *DiskOpener) ensureSchema() error {
	if err := o.fs.MkdirAll(o.cfg.RootDir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(o.cfg.RootDir, diskSchemaFile)
	existing, err := fs.ReadFile(o.fs, path)
	switch {
	case err == nil:
		if string(existing) != diskSchemaVersion {
			return fmt.Errorf("%w: %s", ErrSchemaMismatch, path)
		}
		return nil
	case errors.Is(err, os.ErrNotExist):
		return writeFileAtomic(o.fs, path, []byte(diskSchemaVersion))
	default:
		return err
	}
}

// Destroy removes the root directory and everything in it.
func (o *DiskOpener) Destroy(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.refs.destroy(func() error {
		return o.fs.RemoveAll(o.cfg.RootDir)
	})
}

type diskStore struct {
	fs          fs.FileSystem
	rootDir     string
	compression Compression
	closed      atomic.Bool
	release     func()
}

func (s *diskStore) entryPath(key string) string {
	name := strconv.FormatUint(xxhash.Sum64String(key), 16) + diskEntryExt
	return filepath.Join(s.rootDir, name)
}

func (s *diskStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	raw, err := fs.ReadFile(s.fs, s.entryPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	storedKey, frame, err := parseEntry(raw)
	if err != nil {
		return nil, false, err
	}
	if storedKey != key {
		return nil, false, nil
	}

	value, err := compress.Decode(frame)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *diskStore) Has(ctx context.Context, key string) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	storedKey, err := readEntryKey(s.fs, s.entryPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return storedKey == key, nil
}

func (s *diskStore) Put(ctx context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if ok, err := s.Has(ctx, key); err == nil && ok {
		return nil
	}

	frame, err := compress.Encode(s.compression, value)
	if err != nil {
		return err
	}

	var hdr [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(len(key)))

	buf := make([]byte, 0, len(diskEntryMagic)+n+len(key)+len(frame))
	buf = append(buf, diskEntryMagic[:]...)
	buf = append(buf, hdr[:n]...)
	buf = append(buf, key...)
	buf = append(buf, frame...)

	return writeFileAtomic(s.fs, s.entryPath(key), buf)
}

func (s *diskStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.release()
	return nil
}

func parseEntry(raw []byte) (string, []byte, error) {
	if len(raw) < len(diskEntryMagic) || !bytes.Equal(raw[:len(diskEntryMagic)], diskEntryMagic[:]) {
		return "", nil, compress.ErrCorrupt
	}
	rest := raw[len(diskEntryMagic):]

	v, n := binary.Uvarint(rest)
	if n <= 0 {
		return "", nil, compress.ErrCorrupt
	}
	keyLen, err := conv.Uint64ToInt(v)
	if err != nil || keyLen > len(rest)-n {
		return "", nil, compress.ErrCorrupt
	}
	rest = rest[n:]
	return string(rest[:keyLen]), rest[keyLen:], nil
}

func readEntryKey(fsys fs.FileSystem, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil || magic != diskEntryMagic {
		return "", compress.ErrCorrupt
	}
	keyLen, err := binary.ReadUvarint(r)
	if err != nil || keyLen > maxKeyLen {
		return "", compress.ErrCorrupt
	}
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return "", compress.ErrCorrupt
	}
	return string(key), nil
}

// writeFileAtomic writes data to a temp file in the target directory, syncs
// it and renames it into place, so readers never observe a partial entry.
func writeFileAtomic(fsys fs.FileSystem, path string, data []byte) (err error) {
	tmp, err := fsys.CreateTemp(filepath.Dir(path), "tmp-ent-*")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = fsys.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return fsys.Rename(tmp.Name(), path)
}
