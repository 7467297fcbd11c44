package store

import "github.com/iov-one/escrowd"

// Aliases of the root storage interfaces, so store code can use the short
// names.
type (
	ReadOnlyKVStore  = escrowd.ReadOnlyKVStore
	SetDeleter       = escrowd.SetDeleter
	KVStore          = escrowd.KVStore
	Batch            = escrowd.Batch
	Iterator         = escrowd.Iterator
	CacheableKVStore = escrowd.CacheableKVStore
	KVCacheWrap      = escrowd.KVCacheWrap
	CommitKVStore    = escrowd.CommitKVStore
	CommitID         = escrowd.CommitID
	Model            = escrowd.Model
)

// Pair returns the Model holding key and value.
var Pair = escrowd.Pair
