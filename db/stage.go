package db

import (
	"golang.org/x/exp/maps"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/feedmirror/feedmirror/types"
)

// Stage buffers writes against a parent LevelDB and applies them in one
// batch on Commit. Reads see staged writes first.
type Stage struct {
	batch  leveldb.Batch
	kvmap  map[string][]byte
	parent *LevelDB
}

var _ types.CommitDB = (*Stage)(nil)

func newStage(parent *LevelDB) *Stage {
	return &Stage{
		kvmap:  make(map[string][]byte),
		parent: parent,
	}
}

func (s *Stage) Set(key []byte, value []byte) error {
	prefixedKey := s.parent.PrefixedKey(key)
	s.batch.Put(prefixedKey, value)
	s.kvmap[string(prefixedKey)] = value
	return nil
}

func (s Stage) Get(key []byte) ([]byte, error) {
	prefixedKey := s.parent.PrefixedKey(key)
	value, ok := s.kvmap[string(prefixedKey)]
	if ok {
		return value, nil
	}
	return s.parent.Get(key)
}

func (s *Stage) Delete(key []byte) error {
	prefixedKey := s.parent.PrefixedKey(key)
	s.batch.Delete(prefixedKey)
	s.kvmap[string(prefixedKey)] = nil
	return nil
}

func (s *Stage) Commit() error {
	return s.parent.db.Write(&s.batch, nil)
}

func (s Stage) Len() int {
	return s.batch.Len()
}

func (s *Stage) Reset() {
	s.batch.Reset()
	maps.Clear(s.kvmap)
}
