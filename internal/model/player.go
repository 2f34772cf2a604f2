package model

import (
	"github.com/benbeisheim/chess-engine-backend/internal/engine"
)

// engineID is the player ID the search engine sits under.
const engineID = "engine"

type Player struct {
	ID       string
	Color    engine.Color
	IsEngine bool
}

type ClientPlayer struct {
	ID       string      `json:"name"`
	Color    string      `json:"color"`
	IsEngine bool        `json:"isEngine"`
	Stats    ClientStats `json:"stats"`
	Clock    ClientClock `json:"clock"`
}

type Mode string

const (
	ModeEngine Mode = "engine"
	ModeLocal  Mode = "local"
)

func (m Mode) Valid() bool {
	return m == ModeEngine || m == ModeLocal
}
