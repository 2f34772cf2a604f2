package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbeisheim/chess-engine-backend/internal/config"
	"github.com/benbeisheim/chess-engine-backend/internal/engine"
	"github.com/benbeisheim/chess-engine-backend/internal/model"
	"github.com/benbeisheim/chess-engine-backend/internal/ws"
	"github.com/google/uuid"
)

var (
	ErrInvalidMode  = errors.New("unknown game mode")
	ErrInvalidColor = errors.New("unknown color")
)

type GameService struct {
	gameManager *GameManager
	engine      config.Engine
}

func NewGameService(gameManager *GameManager, cfg config.Engine) *GameService {
	return &GameService{
		gameManager: gameManager,
		engine:      cfg,
	}
}

// CreateGameRequest describes a new game. Color is the creator's side and
// defaults to white; Depth wins over Difficulty for engine games.
type CreateGameRequest struct {
	Mode       model.Mode `json:"mode"`
	Color      string     `json:"color"`
	Depth      int        `json:"depth"`
	Difficulty string     `json:"difficulty"`
}

// CreateGame starts a game and seats the creator in it.
func (gs *GameService) CreateGame(playerID string, req CreateGameRequest) (string, engine.Color, error) {
	if req.Mode == "" {
		req.Mode = model.ModeEngine
	}
	if !req.Mode.Valid() {
		return "", engine.White, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
	color := engine.White
	if req.Color != "" {
		c, err := engine.ParseColor(req.Color)
		if err != nil {
			return "", engine.White, fmt.Errorf("%w: %q", ErrInvalidColor, req.Color)
		}
		color = c
	}
	opts := model.Options{Mode: req.Mode, HumanColor: color}
	if req.Mode == model.ModeEngine {
		depth, err := gs.engine.ResolveDepth(req.Depth, req.Difficulty)
		if err != nil {
			return "", engine.White, err
		}
		opts.Depth = depth
		opts.SearchTimeout = gs.engine.SearchTimeout
	}

	gameID := uuid.New().String()
	game, err := gs.gameManager.CreateGame(gameID, opts)
	if err != nil {
		return "", engine.White, fmt.Errorf("failed to create game: %w", err)
	}
	seat, err := game.AddPlayer(playerID)
	if err != nil {
		return "", engine.White, err
	}
	return gameID, seat, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (engine.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) LegalMoves(gameID string, square string) ([]string, error) {
	return gs.gameManager.LegalMoves(gameID, square)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) (model.GameState, error) {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) Undo(gameID string, playerID string) (model.GameState, error) {
	return gs.gameManager.Undo(gameID, playerID)
}

func (gs *GameService) Evaluate(gameID string, color engine.Color) (float64, error) {
	return gs.gameManager.Evaluate(gameID, color)
}

// Analysis is the engine's choice for a position outside any game.
type Analysis struct {
	FEN      string        `json:"fen"`
	Move     string        `json:"move"`
	Notation string        `json:"notation"`
	Score    float64       `json:"score"`
	Nodes    uint64        `json:"nodes"`
	Depth    int           `json:"depth"`
	Complete bool          `json:"complete"`
	Status   engine.Status `json:"status"`
}

// BestMove searches fen to depth (the configured default when zero) within
// the search timeout. A side with no legal moves gets an empty Move and its
// terminal Status.
func (gs *GameService) BestMove(ctx context.Context, fen string, depth int) (Analysis, error) {
	if depth == 0 {
		depth = gs.engine.DefaultDepth
	}
	if err := gs.engine.CheckDepth(depth); err != nil {
		return Analysis{}, err
	}
	pos, turn, err := engine.ParseFEN(fen)
	if err != nil {
		return Analysis{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, gs.engine.SearchTimeout)
	defer cancel()
	res := engine.NewSearcher(nil).Search(ctx, pos, turn, depth)

	a := Analysis{
		FEN:      pos.FEN(turn),
		Score:    res.Score,
		Nodes:    res.Nodes,
		Depth:    depth,
		Complete: res.Complete,
		Status:   engine.Classify(pos, turn),
	}
	if res.Found {
		a.Move = res.Move.String()
		a.Notation = engine.Notation(pos, res.Move)
	}
	return a, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn ws.Sender) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn ws.Sender) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}
