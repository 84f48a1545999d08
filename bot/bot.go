package bot

import (
	"encoding/json"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	bottypes "github.com/feedmirror/feedmirror/bot/types"
	"github.com/feedmirror/feedmirror/db"
	"github.com/feedmirror/feedmirror/mirror"
	mirrortypes "github.com/feedmirror/feedmirror/mirror/types"
	"github.com/feedmirror/feedmirror/server"
)

func LoadJsonConfig(path string, config any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	err = json.Unmarshal(data, config)
	if err != nil {
		return err
	}

	return nil
}

func GetDBPath(homePath string, botType bottypes.BotType) string {
	return path.Join(homePath, string(botType)+".db")
}

func GetConfigPath(homePath string, configName string) string {
	return path.Join(homePath, configName)
}

func NewBot(botType bottypes.BotType, logger *zap.Logger, homePath string, configName string) (bottypes.Bot, error) {
	err := botType.Validate()
	if err != nil {
		return nil, err
	}

	switch botType {
	case bottypes.BotTypeMirror:
		cfg := &mirrortypes.Config{}
		err := LoadJsonConfig(GetConfigPath(homePath, configName), cfg)
		if err != nil {
			return nil, err
		}

		database, err := db.NewDB(GetDBPath(homePath, botType))
		if err != nil {
			return nil, err
		}

		sv := server.NewServer(cfg.Server)
		return mirror.NewMirror(cfg, database, sv, logger.Named(string(botType))), nil
	}
	return nil, errors.New("not providing bot name")
}
