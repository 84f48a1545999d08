package types

import (
	"github.com/feedmirror/feedmirror/types"
)

type Bot interface {
	Initialize(types.Context) error
	Start(types.Context) error
	Close()
}
