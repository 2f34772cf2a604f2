package model

import (
	"github.com/benbeisheim/chess-engine-backend/internal/engine"
)

type EventType string

const (
	EventMove      EventType = "move"
	EventCapture   EventType = "capture"
	EventCheck     EventType = "check"
	EventCheckmate EventType = "checkmate"
	EventStalemate EventType = "stalemate"
	EventUndo      EventType = "undo"
)

// Event reports something that happened on the board. Color is the side that
// made (or took back) the ply.
type Event struct {
	Type   EventType     `json:"type"`
	GameID string        `json:"gameId"`
	Color  engine.Color  `json:"color"`
	Ply    *Ply          `json:"ply,omitempty"`
	Status engine.Status `json:"status"`
	ToMove engine.Color  `json:"toMove"`
}

// plyEvents lists the events caused by a ply, most significant last.
func (g *Game) plyEvents(color engine.Color, ply *Ply) []Event {
	types := []EventType{EventMove}
	if ply.CapturedPiece != nil {
		types = append(types, EventCapture)
	}
	switch g.status {
	case engine.Check:
		types = append(types, EventCheck)
	case engine.Checkmate:
		types = append(types, EventCheckmate)
	case engine.Stalemate:
		types = append(types, EventStalemate)
	}
	events := make([]Event, 0, len(types))
	for _, t := range types {
		events = append(events, g.newEvent(t, color, ply))
	}
	return events
}

func (g *Game) newEvent(t EventType, color engine.Color, ply *Ply) Event {
	return Event{
		Type:   t,
		GameID: g.ID,
		Color:  color,
		Ply:    ply,
		Status: g.status,
		ToMove: g.turn,
	}
}
