package dictload

import (
	"errors"

	"github.com/hupe1980/dictload/blobstore"
	"github.com/hupe1980/dictload/cache"
	"github.com/hupe1980/dictload/dictionary"
	"github.com/hupe1980/dictload/fetch"
)

var (
	// ErrCacheDisabled is returned by cache management calls on a loader
	// without a cache.
	ErrCacheDisabled = errors.New("dictload: cache disabled")

	// ErrClosed is returned when using a closed Loader.
	ErrClosed = errors.New("dictload: loader closed")

	// ErrNilSource is returned when WithSource is given a nil store.
	ErrNilSource = errors.New("dictload: nil source")

	// ErrNotFound is matched by errors.Is for missing shards.
	ErrNotFound = blobstore.ErrNotFound

	// ErrStoreBusy is returned when the cache is destroyed while another
	// handle to it is still open.
	ErrStoreBusy = cache.ErrStoreBusy
)

type (
	// LoadError reports the shard that failed a load.
	LoadError = dictionary.LoadError
	// DecodeError reports a shard whose length does not fit its element type.
	DecodeError = dictionary.DecodeError
	// FetchError reports a failed source read.
	FetchError = fetch.FetchError
	// CacheError reports a failure of the persistent shard cache.
	CacheError = fetch.CacheError
)
