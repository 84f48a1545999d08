package types

import (
	"github.com/pkg/errors"
)

type BotType string

const (
	BotTypeMirror BotType = "mirror"
)

func (b BotType) Validate() error {
	if b != BotTypeMirror {
		return errors.Errorf("invalid bot type: %s", b)
	}
	return nil
}

func BotTypeFromString(name string) BotType {
	switch name {
	case "mirror":
		return BotTypeMirror
	}
	panic("unknown bot type")
}
