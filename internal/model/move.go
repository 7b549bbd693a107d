package model

// WSMove is a move request as it arrives from a client, with squares in
// their two-character label form. Labels are passed through verbatim from
// the UI and validated at this boundary before reaching the engine.
type WSMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Ply records one executed half-move.
type Ply struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Notation string `json:"notation"`
}

// Move pairs the two plies of one move number.
type Move struct {
	WhitePly Ply `json:"whitePly"`
	BlackPly Ply `json:"blackPly"`
}

// SimpleMove is the from/to pair clients use to highlight the last move.
type SimpleMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}
