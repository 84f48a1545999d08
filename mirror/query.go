package mirror

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

func (m *Mirror) RegisterQuerier() {
	m.server.RegisterQuerier("/status", func(c *fiber.Ctx) error {
		return c.JSON(m.GetStatus())
	})

	m.server.RegisterQuerier("/pending", func(c *fiber.Ctx) error {
		return c.JSON(m.relayer.PendingRounds())
	})

	m.server.RegisterQuerier("/signals", func(c *fiber.Ctx) error {
		return c.JSON(map[string][]feed.Signal{
			types.OriginGateName:      m.origin.Signals().Recent(20),
			types.RelayerName:         m.relayer.Signals().Recent(20),
			types.DestinationGateName: m.destination.Signals().Recent(20),
		})
	})

	m.server.RegisterQuerier("/feed/latest", func(c *fiber.Ctx) error {
		record, err := m.destination.LatestRoundData(c.Context())
		if err != nil {
			return feedError(err)
		}
		return c.JSON(record)
	})

	m.server.RegisterQuerier("/feed/round/:id", func(c *fiber.Ctx) error {
		roundID, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid round id")
		}
		record, err := m.destination.GetRoundData(c.Context(), roundID)
		if err != nil {
			return feedError(err)
		}
		return c.JSON(record)
	})

	m.server.RegisterQuerier("/feed/decimals", func(c *fiber.Ctx) error {
		decimals, err := m.destination.Decimals(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(map[string]uint8{"decimals": decimals})
	})

	m.server.RegisterQuerier("/feed/description", func(c *fiber.Ctx) error {
		description, err := m.destination.Description(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(map[string]string{"description": description})
	})

	m.server.RegisterQuerier("/feed/version", func(c *fiber.Ctx) error {
		version, err := m.destination.Version(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(map[string]uint64{"version": version})
	})
}

func feedError(err error) error {
	if errors.Is(err, types.ErrRoundNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}
