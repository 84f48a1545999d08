package db

import (
	"bytes"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	dbtypes "github.com/feedmirror/feedmirror/db/types"
	"github.com/feedmirror/feedmirror/types"
)

var _ types.DB = (*LevelDB)(nil)

type LevelDB struct {
	db     *leveldb.DB
	path   string
	prefix []byte
}

func NewDB(path string) (types.DB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}

	return &LevelDB{
		db:   db,
		path: path,
	}, nil
}

func (db *LevelDB) NewStage() types.CommitDB {
	return newStage(db)
}

// RawBatchSet sets the key-value pairs in the database without prefixing
// the keys.
func (db *LevelDB) RawBatchSet(kvs ...types.RawKV) error {
	if len(kvs) == 0 {
		return nil
	}
	batch := new(leveldb.Batch)
	for _, kv := range kvs {
		if kv.Value == nil {
			batch.Delete(kv.Key)
		} else {
			batch.Put(kv.Key, kv.Value)
		}
	}
	return db.db.Write(batch, nil)
}

// BatchSet sets the key-value pairs in the database with prefixing the keys.
func (db *LevelDB) BatchSet(kvs ...types.KV) error {
	if len(kvs) == 0 {
		return nil
	}
	batch := new(leveldb.Batch)
	for _, kv := range kvs {
		if kv.Value == nil {
			batch.Delete(db.PrefixedKey(kv.Key))
		} else {
			batch.Put(db.PrefixedKey(kv.Key), kv.Value)
		}
	}
	return db.db.Write(batch, nil)
}

func (db *LevelDB) Set(key []byte, value []byte) error {
	return db.db.Put(db.PrefixedKey(key), value, nil)
}

func (db *LevelDB) Get(key []byte) ([]byte, error) {
	return db.db.Get(db.PrefixedKey(key), nil)
}

func (db *LevelDB) Delete(key []byte) error {
	return db.db.Delete(db.PrefixedKey(key), nil)
}

func (db *LevelDB) Close() error {
	return db.db.Close()
}

// Iterate iterates over the key-value pairs whose keys start with prefix,
// from start (or the first key if start is nil), in ascending order.
func (db *LevelDB) Iterate(prefix []byte, start []byte, cb func(key, value []byte) (stop bool, err error)) error {
	iter := db.db.NewIterator(util.BytesPrefix(db.PrefixedKey(prefix)), nil)
	defer iter.Release()
	if start != nil {
		iter.Seek(db.PrefixedKey(start))
	} else {
		iter.First()
	}

	for iter.Valid() {
		key := db.UnprefixedKey(bytes.Clone(iter.Key()))
		if stop, err := cb(key, bytes.Clone(iter.Value())); err != nil {
			return err
		} else if stop {
			break
		}
		iter.Next()
	}
	return iter.Error()
}

func (db *LevelDB) ReverseIterate(prefix []byte, start []byte, cb func(key, value []byte) (stop bool, err error)) error {
	iter := db.db.NewIterator(util.BytesPrefix(db.PrefixedKey(prefix)), nil)
	defer iter.Release()
	if start != nil {
		iter.Seek(db.PrefixedKey(start))
	} else {
		iter.Last()
	}

	for iter.Valid() {
		key := db.UnprefixedKey(bytes.Clone(iter.Key()))
		if stop, err := cb(key, bytes.Clone(iter.Value())); err != nil {
			return err
		} else if stop {
			break
		}

		iter.Prev()
	}
	return iter.Error()
}

// SeekPrevInclusiveKey returns the greatest key-value pair whose key is
// less than or equal to the given key within the prefix.
func (db *LevelDB) SeekPrevInclusiveKey(prefix []byte, key []byte) (k []byte, v []byte, err error) {
	iter := db.db.NewIterator(util.BytesPrefix(db.PrefixedKey(prefix)), nil)
	defer iter.Release()
	if ok := iter.Seek(db.PrefixedKey(key)); ok || iter.Last() {
		// if the key is found, the iterator is at the key; otherwise it
		// is at the next key, so step back once
		if ok && !bytes.Equal(db.PrefixedKey(key), iter.Key()) {
			iter.Prev()
		}
		if iter.Valid() {
			k = db.UnprefixedKey(bytes.Clone(iter.Key()))
			v = bytes.Clone(iter.Value())
		} else {
			err = dbtypes.ErrNotFound
		}
	} else {
		err = dbtypes.ErrNotFound
	}
	if iter.Error() != nil {
		err = iter.Error()
	}
	return k, v, err
}

// WithPrefix returns a new LevelDB sharing the underlying database with
// the given prefix appended.
func (db *LevelDB) WithPrefix(prefix []byte) types.DB {
	return &LevelDB{
		db:     db.db,
		path:   db.path,
		prefix: db.PrefixedKey(prefix),
	}
}

func (db LevelDB) PrefixedKey(key []byte) []byte {
	return append(append(bytes.Clone(db.prefix), dbtypes.Splitter), key...)
}

// UnprefixedKey removes the prefix from the key, only if the key has the
// prefix.
func (db LevelDB) UnprefixedKey(key []byte) []byte {
	return bytes.TrimPrefix(key, append(bytes.Clone(db.prefix), dbtypes.Splitter))
}

func (db LevelDB) GetPath() string {
	return db.path
}

func (db LevelDB) GetPrefix() []byte {
	splits := bytes.Split(db.prefix, []byte{dbtypes.Splitter})
	if len(splits) == 0 {
		return nil
	}
	return splits[len(splits)-1]
}
