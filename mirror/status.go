package mirror

import (
	"github.com/feedmirror/feedmirror/destination"
	"github.com/feedmirror/feedmirror/origin"
	"github.com/feedmirror/feedmirror/relayer"
)

type Status struct {
	Origin      origin.Status      `json:"origin"`
	Relayer     relayer.Status     `json:"relayer"`
	Destination destination.Status `json:"destination"`
}

func (m *Mirror) GetStatus() Status {
	return Status{
		Origin:      m.origin.GetStatus(),
		Relayer:     m.relayer.GetStatus(),
		Destination: m.destination.GetStatus(),
	}
}
