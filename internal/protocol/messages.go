// Package protocol defines the JSON wire format spoken over the websocket:
// a typed envelope for inbound client messages and event constructors for
// outbound server messages.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/rpsarena-go/internal/model"
)

// MessageType identifies a wire message
type MessageType string

// Client -> server message types
const (
	TypeIdentify        MessageType = "identify"
	TypeListRooms       MessageType = "listRooms"
	TypeCreateRoom      MessageType = "createRoom"
	TypeJoinRoom        MessageType = "joinRoom"
	TypeStartGame       MessageType = "startGame"
	TypeMakeMove        MessageType = "makeMove"
	TypePlayAgainChoice MessageType = "playAgainChoice"
)

// Server -> client message types
const (
	TypeRoomList        MessageType = "roomList"
	TypeRoomUpdate      MessageType = "roomUpdate"
	TypeRoomCreated     MessageType = "roomCreated"
	TypeGameStart       MessageType = "gameStart"
	TypeStateUpdate     MessageType = "stateUpdate"
	TypePlayAgainUpdate MessageType = "playAgainUpdate"
	TypeError           MessageType = "error"
)

// Envelope is the outer frame of every wire message
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound is the closed set of client messages. Handlers switch over the
// concrete payload types; DecodeInbound is the only constructor.
type Inbound interface {
	inbound()
}

// Identify sets the connection's display name
type Identify struct {
	PlayerName string `json:"playerName"`
}

// ListRooms requests a lobby snapshot
type ListRooms struct{}

// CreateRoom creates a room with the sender as host
type CreateRoom struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName,omitempty"`
}

// JoinRoom joins an existing room
type JoinRoom struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName,omitempty"`
}

// StartGame asks the host to begin the match
type StartGame struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName,omitempty"`
}

// MakeMove submits a move for the current round
type MakeMove struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName,omitempty"`
	Move       string `json:"move"`
}

// PlayAgainChoice submits a rematch vote
type PlayAgainChoice struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName,omitempty"`
	Choice     string `json:"choice"`
}

func (Identify) inbound()        {}
func (ListRooms) inbound()       {}
func (CreateRoom) inbound()      {}
func (JoinRoom) inbound()        {}
func (StartGame) inbound()       {}
func (MakeMove) inbound()        {}
func (PlayAgainChoice) inbound() {}

// DecodeInbound parses a raw frame into its typed inbound message
func DecodeInbound(data []byte) (Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	decode := func(v Inbound) (Inbound, error) {
		if len(env.Payload) == 0 {
			return v, nil
		}
		if err := json.Unmarshal(env.Payload, v); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Type, err)
		}
		return v, nil
	}

	switch env.Type {
	case TypeIdentify:
		return decode(&Identify{})
	case TypeListRooms:
		return decode(&ListRooms{})
	case TypeCreateRoom:
		return decode(&CreateRoom{})
	case TypeJoinRoom:
		return decode(&JoinRoom{})
	case TypeStartGame:
		return decode(&StartGame{})
	case TypeMakeMove:
		return decode(&MakeMove{})
	case TypePlayAgainChoice:
		return decode(&PlayAgainChoice{})
	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
}

// Message is an outbound server event
type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

// RoomWithState pairs a lobby summary with the room's battle state for
// room-scoped events. The state is never included in lobby-wide broadcasts.
type RoomWithState struct {
	model.RoomSummary
	GameState model.GameState `json:"gameState"`
}

// RoomListPayload carries the lobby snapshot
type RoomListPayload struct {
	Rooms []model.RoomSummary `json:"rooms"`
}

// RoomUpdatePayload carries a single room's summary to its occupants
type RoomUpdatePayload struct {
	Room model.RoomSummary `json:"room"`
}

// RoomCreatedPayload is sent to the acting connection after create or join
type RoomCreatedPayload struct {
	RoomID model.RoomID  `json:"roomId"`
	Room   RoomWithState `json:"room"`
}

// GameStartPayload is broadcast room-wide on an explicit start
type GameStartPayload struct {
	RoomID model.RoomID  `json:"roomId"`
	Room   RoomWithState `json:"room"`
}

// StateUpdatePayload is broadcast room-wide when a round resolves (and with
// empty message fields on game start and rematch)
type StateUpdatePayload struct {
	RoomID       model.RoomID    `json:"roomId"`
	State        model.GameState `json:"state"`
	RoundMessage string          `json:"roundMessage"`
	GameOver     bool            `json:"gameOver"`
	Player1Move  string          `json:"player1Move,omitempty"`
	Player2Move  string          `json:"player2Move,omitempty"`
}

// PlayAgainUpdatePayload reports the rematch decision
type PlayAgainUpdatePayload struct {
	RoomID model.RoomID `json:"roomId"`
	Status string       `json:"status"` // "rematch" or "ended"
}

// ErrorPayload is sent to the originating connection only
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewRoomList builds a roomList event
func NewRoomList(rooms []model.RoomSummary) Message {
	return Message{Type: TypeRoomList, Payload: RoomListPayload{Rooms: rooms}}
}

// NewRoomUpdate builds a roomUpdate event
func NewRoomUpdate(room *model.Room) Message {
	return Message{Type: TypeRoomUpdate, Payload: RoomUpdatePayload{Room: room.Summary()}}
}

// NewRoomCreated builds a roomCreated event
func NewRoomCreated(room *model.Room) Message {
	return Message{Type: TypeRoomCreated, Payload: RoomCreatedPayload{
		RoomID: room.ID,
		Room:   RoomWithState{RoomSummary: room.Summary(), GameState: room.State},
	}}
}

// NewGameStart builds a gameStart event
func NewGameStart(room *model.Room) Message {
	return Message{Type: TypeGameStart, Payload: GameStartPayload{
		RoomID: room.ID,
		Room:   RoomWithState{RoomSummary: room.Summary(), GameState: room.State},
	}}
}

// NewStateUpdate builds a stateUpdate event
func NewStateUpdate(payload StateUpdatePayload) Message {
	return Message{Type: TypeStateUpdate, Payload: payload}
}

// NewPlayAgainUpdate builds a playAgainUpdate event
func NewPlayAgainUpdate(roomID model.RoomID, status string) Message {
	return Message{Type: TypePlayAgainUpdate, Payload: PlayAgainUpdatePayload{RoomID: roomID, Status: status}}
}

// NewError builds an error event
func NewError(message string) Message {
	return Message{Type: TypeError, Payload: ErrorPayload{Message: message}}
}
