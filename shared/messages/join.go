package messages

import "github.com/leap-fish/necs/esync"

// JoinRequest is sent by a client after connecting to request joining the game.
type JoinRequest struct {
	Version    string
	PlayerName string
}

// JoinAccepted tells the client which entity it controls and how often the
// server simulates and sends snapshots.
type JoinAccepted struct {
	NetworkID    esync.NetworkId
	ServerName   string
	TickRate     int
	TicksPerSend int
}

// JoinRejected is sent by the server when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}
