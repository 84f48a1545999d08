package types

import (
	"github.com/syndtr/goleveldb/leveldb"
)

var ErrNotFound = leveldb.ErrNotFound
