package store

// Recorder is implemented by stores returned from NewRecordingStore.
type Recorder interface {
	// KVPairs maps every key written so far to its new value. Deleted keys
	// map to nil.
	KVPairs() map[string][]byte
}

// NewRecordingStore tracks every write made to db, including the ones made
// through batches and flushed caches. If db can be cache wrapped, so can
// the result.
func NewRecordingStore(db KVStore) KVStore {
	rec := &recordingStore{KVStore: db, written: make(map[string][]byte)}
	if _, ok := db.(CacheableKVStore); ok {
		return cacheableRecorder{rec}
	}
	return rec
}

type recordingStore struct {
	KVStore
	written map[string][]byte
}

var _ Recorder = (*recordingStore)(nil)

func (r *recordingStore) KVPairs() map[string][]byte {
	return r.written
}

func (r *recordingStore) Set(key, value []byte) error {
	r.written[string(key)] = value
	return r.KVStore.Set(key, value)
}

func (r *recordingStore) Delete(key []byte) error {
	r.written[string(key)] = nil
	return r.KVStore.Delete(key)
}

func (r *recordingStore) NewBatch() Batch {
	return recordingBatch{Batch: r.KVStore.NewBatch(), written: r.written}
}

// cacheableRecorder caches on top of the recorder so that flushed writes
// pass through it.
type cacheableRecorder struct {
	*recordingStore
}

var _ CacheableKVStore = cacheableRecorder{}

func (c cacheableRecorder) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(c, c.NewBatch(), nil)
}

type recordingBatch struct {
	Batch
	written map[string][]byte
}

func (b recordingBatch) Set(key, value []byte) error {
	b.written[string(key)] = value
	return b.Batch.Set(key, value)
}

func (b recordingBatch) Delete(key []byte) error {
	b.written[string(key)] = nil
	return b.Batch.Delete(key)
}
