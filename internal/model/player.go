package model

// Player identifies a participant outside any particular game.
type Player struct {
	ID string
}

// ClientPlayer is the per-seat view sent to clients.
type ClientPlayer struct {
	ID       string `json:"name"`
	Color    string `json:"color"`
	TimeLeft int    `json:"timeLeft"`
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

// MatchFoundEvent notifies a queued player that a game has been created.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  PlayerColor `json:"color"`
}
