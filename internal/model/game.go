package model

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/chessline/chessline-backend/internal/engine"
	"github.com/chessline/chessline-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameFull    = errors.New("game is full")
	ErrNotSeated   = errors.New("player not seated in this game")
	ErrNotYourTurn = errors.New("not your turn")
)

// GameConnections tracks the live sockets for one game.
type GameConnections struct {
	mu    sync.RWMutex
	conns map[string]*websocket.Conn // playerID -> connection
}

func NewGameConnections() *GameConnections {
	return &GameConnections{conns: make(map[string]*websocket.Conn)}
}

// Game couples one engine state with its seats, clocks and observers. The
// engine knows nothing about players or time; everything above the rules of
// chess lives here.
type Game struct {
	ID          string
	mu          sync.Mutex
	state       *engine.GameState
	history     []Move
	lastMove    *SimpleMove
	seats       Seats
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
}

type Seats struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// ClientState is the JSON snapshot sent to connected clients.
type ClientState struct {
	FEN         string      `json:"fen"`
	ToMove      string      `json:"toMove"`
	IsCheck     bool        `json:"isCheck"`
	IsCheckmate bool        `json:"isCheckmate"`
	IsStalemate bool        `json:"isStalemate"`
	LastMove    *SimpleMove `json:"lastMove"`
	MoveHistory []Move      `json:"moveHistory"`
	Players     Seats       `json:"players"`
}

func NewGame(id string, clockTime time.Duration) *Game {
	return &Game{
		ID:          id,
		state:       engine.NewGame(),
		history:     make([]Move, 0),
		connections: NewGameConnections(),
		whiteClock:  NewClock(clockTime),
		blackClock:  NewClock(clockTime),
	}
}

// AddPlayer seats a player in the first free seat, white first.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seats.White.ID == "" {
		g.seats.White = ClientPlayer{ID: playerID, Color: string(PlayerColorWhite)}
		return PlayerColorWhite, nil
	}
	if g.seats.Black.ID == "" {
		g.seats.Black = ClientPlayer{ID: playerID, Color: string(PlayerColorBlack)}
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (g *Game) GetState() ClientState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.clientState()
}

// LegalMoves returns the legal destination labels for the piece on the given
// square label. A malformed label is an error; an empty square is an empty
// list.
func (g *Game) LegalMoves(square string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	from, err := engine.ParseSquare(square)
	if err != nil {
		return nil, err
	}
	moves := make([]string, 0)
	for _, to := range g.state.LegalMoves(from) {
		moves = append(moves, to.Label())
	}
	return moves, nil
}

// MakeMove validates seat ownership and turn, executes the move through the
// engine, swaps the clocks and broadcasts the new state. On any rejection
// nothing changes.
func (g *Game) MakeMove(playerID string, mv WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, err := g.seatColor(playerID)
	if err != nil {
		return err
	}
	if g.state.ActiveColor() != color {
		return ErrNotYourTurn
	}

	from, err := engine.ParseSquare(mv.From)
	if err != nil {
		return err
	}
	to, err := engine.ParseSquare(mv.To)
	if err != nil {
		return err
	}
	if !g.state.IsOwnPiece(from) {
		return engine.ErrIllegalMove
	}

	// Notation needs the pre-move board; compute it before executing.
	notation := g.notation(from, to)
	if err := g.state.Move(from, to); err != nil {
		return err
	}

	if color == engine.White {
		g.whiteClock.Stop()
		g.blackClock.Start()
	} else {
		g.blackClock.Stop()
		g.whiteClock.Start()
	}

	g.recordPly(color, Ply{From: mv.From, To: mv.To, Notation: notation})
	g.lastMove = &SimpleMove{From: mv.From, To: mv.To}

	go g.broadcastState(g.clientState())
	return nil
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isSeated(playerID)
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	authorized := g.isSeated(playerID) || g.canSpectate()
	snapshot := g.clientState()
	g.mu.Unlock()

	if !authorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.conns[playerID]; exists {
		// Keep the existing connection and reject the new one.
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "connection already exists"),
		)
		conn.Close()
		return nil
	}
	g.connections.conns[playerID] = conn
	g.connections.mu.Unlock()

	go g.broadcastState(snapshot)
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	delete(g.connections.conns, playerID)
}

// broadcastState pushes a state snapshot to every registered connection.
// The snapshot is taken by the caller under the game lock, so the write loop
// itself holds only the connection lock.
func (g *Game) broadcastState(state ClientState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("game %s: marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.conns {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Printf("game %s: send state to %s: %v", g.ID, playerID, err)
			delete(g.connections.conns, playerID)
		}
	}
}

func (g *Game) clientState() ClientState {
	seats := g.seats
	seats.White.TimeLeft = int(g.whiteClock.TimeLeft().Milliseconds() / 100)
	seats.Black.TimeLeft = int(g.blackClock.TimeLeft().Milliseconds() / 100)

	history := make([]Move, len(g.history))
	copy(history, g.history)

	active := g.state.ActiveColor()
	return ClientState{
		FEN:         g.state.FEN(),
		ToMove:      active.String(),
		IsCheck:     g.state.InCheck(active),
		IsCheckmate: g.state.IsCheckmate(),
		IsStalemate: g.state.IsStalemate(),
		LastMove:    g.lastMove,
		MoveHistory: history,
		Players:     seats,
	}
}

func (g *Game) seatColor(playerID string) (engine.Color, error) {
	switch {
	case g.seats.White.ID != "" && g.seats.White.ID == playerID:
		return engine.White, nil
	case g.seats.Black.ID != "" && g.seats.Black.ID == playerID:
		return engine.Black, nil
	}
	return engine.White, ErrNotSeated
}

func (g *Game) isSeated(playerID string) bool {
	_, err := g.seatColor(playerID)
	return err == nil
}

func (g *Game) canSpectate() bool {
	return g.seats.White.ID == "" || g.seats.Black.ID == ""
}

func (g *Game) recordPly(color engine.Color, ply Ply) {
	if color == engine.White || len(g.history) == 0 {
		g.history = append(g.history, Move{})
	}
	last := &g.history[len(g.history)-1]
	if color == engine.White {
		last.WhitePly = ply
	} else {
		last.BlackPly = ply
	}
}

// notation renders a ply in the abbreviated algebraic style clients display:
// piece letter, file specifier for pawn captures, "x" on captures, and the
// castle forms O-O / O-O-O.
func (g *Game) notation(from, to engine.Square) string {
	p := g.state.PieceAt(from)
	if p.Kind == engine.King && abs(to.File-from.File) == 2 {
		if to.File == 2 {
			return "O-O-O"
		}
		return "O-O"
	}

	capture := !g.state.PieceAt(to).IsEmpty()
	fileSpec := ""
	if p.Kind == engine.Pawn && from.File != to.File {
		capture = true // diagonal pawn moves are captures, en passant included
		fileSpec = from.Label()[:1]
	}

	s := kindNotation(p.Kind) + fileSpec
	if capture {
		s += "x"
	}
	return s + to.Label()
}

func kindNotation(k engine.Kind) string {
	switch k {
	case engine.King:
		return "K"
	case engine.Queen:
		return "Q"
	case engine.Rook:
		return "R"
	case engine.Bishop:
		return "B"
	case engine.Knight:
		return "N"
	default:
		return ""
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
