package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbeisheim/chess-engine-backend/internal/engine"
	"github.com/benbeisheim/chess-engine-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/exp/slices"
)

var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrIllegalMove      = errors.New("illegal move")
	ErrGameOver         = errors.New("game is over")
	ErrEngineThinking   = errors.New("engine is thinking")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrGameFull         = errors.New("game is full")
	ErrNotInGame        = errors.New("player is not in this game")
	ErrNotAuthorized    = errors.New("not authorized to join this game")
	ErrAlreadyConnected = errors.New("connection already exists")
)

// Options configure a game at creation.
type Options struct {
	Mode Mode
	// HumanColor is the side the human plays in engine mode, and the side
	// of the first player to join a local game.
	HumanColor engine.Color
	Depth      int
	// SearchTimeout bounds each engine move; zero means no limit.
	SearchTimeout time.Duration
	Searcher      *engine.Searcher
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]ws.Sender // playerID -> connection
	mu          sync.RWMutex
}

// Game owns the authoritative Position for one game and serializes every
// access to it. While the engine searches it holds mu for the whole search
// and thinking is set, so human requests fail fast with ErrEngineThinking
// instead of queueing behind it.
type Game struct {
	ID   string
	opts Options

	mu      sync.Mutex
	pos     *engine.Position
	turn    engine.Color
	status  engine.Status
	history []historyEntry
	players [2]*Player
	stats   [2]Stats
	clocks  [2]*Clock
	sound   string
	onEvent func(Event)

	searcher  *engine.Searcher
	evaluator *engine.Evaluator
	thinking  atomic.Bool
	workers   sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc

	stateMu sync.RWMutex
	state   GameState

	connections *GameConnections // Connections just for this game
}

type historyEntry struct {
	record engine.Record
	ply    Ply
	color  engine.Color
	// stats holds the mover's counters from before the ply.
	stats Stats
}

type GameState struct {
	ID             string         `json:"id"`
	Mode           Mode           `json:"mode"`
	Depth          int            `json:"depth,omitempty"`
	Sound          string         `json:"sound"`
	Board          *BoardState    `json:"boardState"`
	FEN            string         `json:"fen"`
	ToMove         engine.Color   `json:"toMove"`
	Status         engine.Status  `json:"status"`
	IsCheck        bool           `json:"isCheck"`
	Winner         *engine.Color  `json:"winner"`
	Thinking       bool           `json:"thinking"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	Players        struct {
		White *ClientPlayer `json:"white"`
		Black *ClientPlayer `json:"black"`
	} `json:"players"`
	LastMove *SimpleMove `json:"lastMove"` // Made nullable
}

// CapturedPieces lists the pieces each side has taken.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func NewGame(id string, opts Options) *Game {
	if !opts.Mode.Valid() {
		opts.Mode = ModeLocal
	}
	if opts.Depth < 1 {
		opts.Depth = 1
	}
	if opts.Searcher == nil || opts.Searcher.Evaluator == nil {
		s := engine.NewSearcher(nil)
		if opts.Searcher != nil {
			s.Options = opts.Searcher.Options
		}
		opts.Searcher = s
	}
	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		ID:          id,
		opts:        opts,
		pos:         engine.StartingPosition(),
		turn:        engine.White,
		status:      engine.Ongoing,
		stats:       [2]Stats{newStats(), newStats()},
		clocks:      [2]*Clock{NewClock(), NewClock()},
		searcher:    opts.Searcher,
		evaluator:   opts.Searcher.Evaluator,
		ctx:         ctx,
		cancel:      cancel,
		connections: NewGameConnections(),
	}
	if opts.Mode == ModeEngine {
		c := opts.HumanColor.Opposite()
		g.players[c] = &Player{ID: engineID, Color: c, IsEngine: true}
	}
	g.refreshState()
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]ws.Sender),
	}
}

func (g *Game) Mode() Mode {
	return g.opts.Mode
}

// SetEventHook registers fn to receive every event in order. fn runs with
// the game locked and must not call back into the game.
func (g *Game) SetEventHook(fn func(Event)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onEvent = fn
}

// AddPlayer seats playerID and returns its color. A player already seated
// gets its color back.
func (g *Game) AddPlayer(playerID string) (engine.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.colorOf(playerID); ok {
		return c, nil
	}
	seats := []engine.Color{g.opts.HumanColor, g.opts.HumanColor.Opposite()}
	if g.opts.Mode == ModeEngine {
		seats = []engine.Color{g.opts.HumanColor}
	}
	for _, c := range seats {
		if g.players[c] != nil {
			continue
		}
		g.players[c] = &Player{ID: playerID, Color: c}
		log.Infow("player joined", "gameID", g.ID, "playerID", playerID, "color", c.String())
		if c == g.turn && !g.status.Terminal() {
			g.clocks[c].Start()
		}
		g.maybeStartEngine()
		g.refreshState()
		g.broadcastState()
		return c, nil
	}
	return engine.White, ErrGameFull
}

func (g *Game) GetState() GameState {
	g.stateMu.RLock()
	defer g.stateMu.RUnlock()

	s := g.state
	s.Thinking = g.thinking.Load()
	return s
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players[engine.White] == nil || g.players[engine.Black] == nil
}

// colorOf finds the seat of a human player.
func (g *Game) colorOf(playerID string) (engine.Color, bool) {
	for _, p := range g.players {
		if p != nil && !p.IsEngine && p.ID == playerID {
			return p.Color, true
		}
	}
	return engine.White, false
}

// lockIdle takes the game lock unless the engine holds the position.
func (g *Game) lockIdle() error {
	if g.thinking.Load() {
		return ErrEngineThinking
	}
	g.mu.Lock()
	if g.thinking.Load() {
		g.mu.Unlock()
		return ErrEngineThinking
	}
	return nil
}

// LegalMoves lists the destinations of the piece on square, or none when the
// square is empty.
func (g *Game) LegalMoves(square string) ([]string, error) {
	sq, err := engine.ParseSquare(square)
	if err != nil {
		return nil, err
	}
	if err := g.lockIdle(); err != nil {
		return nil, err
	}
	defer g.mu.Unlock()

	moves := engine.LegalMoves(g.pos, sq)
	names := make([]string, 0, len(moves))
	for _, to := range moves {
		names = append(names, to.String())
	}
	return names, nil
}

// Evaluate scores the current position from color's point of view.
func (g *Game) Evaluate(color engine.Color) (float64, error) {
	if err := g.lockIdle(); err != nil {
		return 0, err
	}
	defer g.mu.Unlock()
	return g.evaluator.Evaluate(g.pos, color), nil
}

func (g *Game) MakeMove(playerID string, move WSMove) (GameState, error) {
	from, err := engine.ParseSquare(move.From)
	if err != nil {
		return GameState{}, fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}
	to, err := engine.ParseSquare(move.To)
	if err != nil {
		return GameState{}, fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}
	if err := g.lockIdle(); err != nil {
		return GameState{}, err
	}
	defer g.mu.Unlock()

	color, ok := g.colorOf(playerID)
	if !ok {
		return GameState{}, ErrNotInGame
	}
	if g.status.Terminal() {
		return GameState{}, ErrGameOver
	}
	if color != g.turn {
		return GameState{}, ErrNotYourTurn
	}
	if pc := g.pos.Piece(from); pc == nil || pc.Color != color {
		return GameState{}, fmt.Errorf("%w: no %s piece on %s", ErrIllegalMove, color, from)
	}
	if !slices.Contains(engine.LegalMoves(g.pos, from), to) {
		return GameState{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
	}

	think := g.clocks[color].Stop()
	events, err := g.apply(color, engine.Move{From: from, To: to}, think)
	if err != nil {
		return GameState{}, err
	}
	log.Debugw("move played", "gameID", g.ID, "playerID", playerID, "move", events[0].Ply.Notation)
	g.maybeStartEngine()
	g.emit(events)
	return g.GetState(), nil
}

// apply commits a legal move for color and updates everything derived from
// the position. The caller holds mu.
func (g *Game) apply(color engine.Color, m engine.Move, think time.Duration) ([]Event, error) {
	before := g.evaluator.Evaluate(g.pos, color)
	notation := engine.Notation(g.pos, m)
	rec, err := g.pos.ApplyMove(m.From, m.To)
	if err != nil {
		return nil, err
	}
	g.turn = color.Opposite()
	g.status = engine.Classify(g.pos, g.turn)
	after := g.evaluator.Evaluate(g.pos, color)

	prev := g.stats[color].clone()
	blunder := g.stats[color].record(rec.Captured, g.status, before, after)
	ply := Ply{
		Piece:      newPiece(rec.Piece, m.To),
		From:       m.From.String(),
		To:         m.To.String(),
		Notation:   notation,
		Evaluation: after,
		ThinkTime:  think,
		Blunder:    blunder,
	}
	if rec.Captured != nil {
		captured := newPiece(*rec.Captured, m.To)
		ply.CapturedPiece = &captured
	}
	g.history = append(g.history, historyEntry{record: rec, ply: ply, color: color, stats: prev})

	if !g.status.Terminal() {
		if p := g.players[g.turn]; p != nil && !p.IsEngine {
			g.clocks[g.turn].Start()
		}
	}
	events := g.plyEvents(color, &ply)
	g.sound = string(events[len(events)-1].Type)
	g.refreshState()
	return events, nil
}

// Undo takes back the last ply. In engine mode the engine's reply is taken
// back together with the human move before it, so the human is to move again.
func (g *Game) Undo(playerID string) (GameState, error) {
	if err := g.lockIdle(); err != nil {
		return GameState{}, err
	}
	defer g.mu.Unlock()

	if !g.isPlayerInGame(playerID) {
		return GameState{}, ErrNotInGame
	}
	n := 1
	if g.opts.Mode == ModeEngine && len(g.history) > 0 && g.history[len(g.history)-1].color != g.opts.HumanColor {
		n = 2
	}
	if len(g.history) < n {
		return GameState{}, ErrNothingToUndo
	}

	g.clocks[g.turn].Reset()
	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		e := g.history[len(g.history)-1]
		g.history = g.history[:len(g.history)-1]
		g.pos.Revert(e.record)
		g.stats[e.color] = e.stats
		g.turn = e.color
		g.status = engine.Classify(g.pos, g.turn)
		ply := e.ply
		events = append(events, g.newEvent(EventUndo, e.color, &ply))
	}
	if p := g.players[g.turn]; p != nil && !p.IsEngine {
		g.clocks[g.turn].Start()
	}
	log.Debugw("plies taken back", "gameID", g.ID, "playerID", playerID, "count", n)
	g.sound = string(EventUndo)
	g.refreshState()
	g.emit(events)
	return g.GetState(), nil
}

// maybeStartEngine hands the position to the engine when it is the engine's
// turn. The caller holds mu; the worker waits for it to be released.
func (g *Game) maybeStartEngine() {
	if g.opts.Mode != ModeEngine || g.status.Terminal() || g.ctx.Err() != nil {
		return
	}
	if p := g.players[g.turn]; p == nil || !p.IsEngine {
		return
	}
	if g.players[g.opts.HumanColor] == nil {
		return
	}
	g.thinking.Store(true)
	g.workers.Add(1)
	go g.engineMove()
}

func (g *Game) engineMove() {
	defer g.workers.Done()
	g.mu.Lock()
	var events []Event
	defer func() {
		g.thinking.Store(false)
		g.emit(events)
		g.mu.Unlock()
	}()

	ctx, cancel := g.searchContext()
	defer cancel()

	color := g.turn
	g.clocks[color].Start()
	res := g.searcher.Search(ctx, g.pos, color, g.opts.Depth)
	think := g.clocks[color].Stop()
	if g.ctx.Err() != nil || !res.Found {
		return
	}
	if !res.Complete {
		log.Warnw("engine search cut short", "gameID", g.ID, "depth", g.opts.Depth, "nodes", res.Nodes, "move", res.Move.String())
	}

	var err error
	if events, err = g.apply(color, res.Move, think); err != nil {
		log.Errorw("engine move rejected", "gameID", g.ID, "move", res.Move.String(), "error", err)
		return
	}
	log.Debugw("engine moved", "gameID", g.ID, "move", events[0].Ply.Notation, "score", res.Score, "nodes", res.Nodes, "think", think)
}

func (g *Game) searchContext() (context.Context, context.CancelFunc) {
	if g.opts.SearchTimeout > 0 {
		return context.WithTimeout(g.ctx, g.opts.SearchTimeout)
	}
	return context.WithCancel(g.ctx)
}

// WaitIdle blocks until no engine move is in progress.
func (g *Game) WaitIdle() {
	g.workers.Wait()
}

// Close stops any running search and waits for it to finish. The game keeps
// answering reads afterwards but the engine no longer moves.
func (g *Game) Close() {
	g.cancel()
	g.workers.Wait()
}

// refreshState rebuilds the published snapshot. The caller holds mu.
func (g *Game) refreshState() {
	plies := make([]Ply, 0, len(g.history))
	captured := CapturedPieces{White: make([]Piece, 0), Black: make([]Piece, 0)}
	for _, e := range g.history {
		plies = append(plies, e.ply)
		if e.ply.CapturedPiece == nil {
			continue
		}
		if e.color == engine.White {
			captured.White = append(captured.White, *e.ply.CapturedPiece)
		} else {
			captured.Black = append(captured.Black, *e.ply.CapturedPiece)
		}
	}

	state := GameState{
		ID:             g.ID,
		Mode:           g.opts.Mode,
		Sound:          g.sound,
		Board:          newBoardState(g.pos),
		FEN:            g.pos.FEN(g.turn),
		ToMove:         g.turn,
		Status:         g.status,
		IsCheck:        g.status == engine.Check || g.status == engine.Checkmate,
		MoveHistory:    pairPlies(plies),
		CapturedPieces: captured,
	}
	if g.opts.Mode == ModeEngine {
		state.Depth = g.opts.Depth
	}
	if g.status == engine.Checkmate {
		winner := g.turn.Opposite()
		state.Winner = &winner
	}
	if n := len(g.history); n > 0 {
		last := g.history[n-1].ply
		state.LastMove = &SimpleMove{From: last.From, To: last.To}
	}
	state.Players.White = g.clientPlayer(engine.White)
	state.Players.Black = g.clientPlayer(engine.Black)

	g.stateMu.Lock()
	g.state = state
	g.stateMu.Unlock()
}

func (g *Game) clientPlayer(c engine.Color) *ClientPlayer {
	p := g.players[c]
	if p == nil {
		return nil
	}
	return &ClientPlayer{
		ID:       p.ID,
		Color:    c.String(),
		IsEngine: p.IsEngine,
		Stats:    g.stats[c].client(),
		Clock:    g.clocks[c].client(),
	}
}

// emit delivers events to the hook and to every connection, followed by the
// resulting state. The caller holds mu.
func (g *Game) emit(events []Event) {
	if len(events) == 0 {
		return
	}
	for _, e := range events {
		if g.onEvent != nil {
			g.onEvent(e)
		}
		msg, err := ws.NewMessage(ws.MessageTypeEvent, e)
		if err != nil {
			log.Errorw("failed to encode event", "gameID", g.ID, "type", e.Type, "error", err)
			continue
		}
		g.broadcast(msg)
	}
	g.broadcastState()
}

func (g *Game) RegisterConnection(playerID string, conn ws.Sender) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		return ErrAlreadyConnected
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Debugw("connection registered", "gameID", g.ID, "playerID", playerID)

	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.GetState())
	if err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

// UnregisterConnection removes conn if it is still the player's current
// connection.
func (g *Game) UnregisterConnection(playerID string, conn ws.Sender) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Debugw("connection unregistered", "gameID", g.ID, "playerID", playerID)
	}
}

func (g *Game) broadcastState() {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.GetState())
	if err != nil {
		log.Errorw("failed to encode state", "gameID", g.ID, "error", err)
		return
	}
	g.broadcast(msg)
}

func (g *Game) broadcast(msg ws.Message) {
	g.connections.mu.RLock()
	active := make(map[string]ws.Sender, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	var failed []string
	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnw("failed to send to player", "gameID", g.ID, "playerID", playerID, "error", err)
			failed = append(failed, playerID)
		}
	}
	if len(failed) == 0 {
		return
	}
	g.connections.mu.Lock()
	for _, playerID := range failed {
		if g.connections.connections[playerID] == active[playerID] {
			delete(g.connections.connections, playerID)
		}
	}
	g.connections.mu.Unlock()
}
