package types

// KV is a key-value pair with prefixing the key.
type KV struct {
	Key   []byte
	Value []byte
}

// RawKV is a key-value pair without prefixing the key.
type RawKV struct {
	Key   []byte
	Value []byte
}

// BasicDB is the minimal read-write surface shared by the database and
// staged batches.
type BasicDB interface {
	Get([]byte) ([]byte, error)
	Set([]byte, []byte) error
	Delete([]byte) error
}

type DB interface {
	BasicDB

	NewStage() CommitDB

	RawBatchSet(...RawKV) error
	BatchSet(...KV) error
	Iterate([]byte, []byte, func([]byte, []byte) (bool, error)) error
	ReverseIterate([]byte, []byte, func([]byte, []byte) (bool, error)) error
	SeekPrevInclusiveKey([]byte, []byte) ([]byte, []byte, error)
	WithPrefix([]byte) DB
	PrefixedKey([]byte) []byte
	UnprefixedKey([]byte) []byte
	GetPath() string
	Close() error
}

// CommitDB accumulates writes and applies them atomically on Commit.
type CommitDB interface {
	BasicDB

	Commit() error
	Reset()
	Len() int
}
