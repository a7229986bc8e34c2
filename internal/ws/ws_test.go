package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsarena-go/internal/dependencies/clock"
	"github.com/mcoot/rpsarena-go/internal/dependencies/random"
	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/protocol"
	"github.com/mcoot/rpsarena-go/internal/services/game"
	"github.com/mcoot/rpsarena-go/internal/services/match"
	"github.com/mcoot/rpsarena-go/internal/services/room"
	"github.com/mcoot/rpsarena-go/internal/session"
	"github.com/mcoot/rpsarena-go/internal/storage/memory"
	"github.com/mcoot/rpsarena-go/internal/testutil"
)

const readTimeout = 2 * time.Second

type WSSuite struct {
	suite.Suite
	server *httptest.Server
	conns  []*websocket.Conn
}

func TestWSSuite(t *testing.T) {
	suite.Run(t, new(WSSuite))
}

func (s *WSSuite) SetupTest() {
	store := memory.New()
	logger := testutil.NopLogger()
	clk := clock.New()
	resolver := game.NewResolver()
	rooms := room.NewController(store, resolver, clk)
	matches := match.NewController(store, resolver, clk)

	hub := NewHub(logger)
	tracker := session.NewTracker(rooms, matches, hub, clk, 50*time.Millisecond, logger)
	handler := NewHandler(hub, tracker, random.New(), logger)

	s.server = httptest.NewServer(handler)
	s.conns = nil
}

func (s *WSSuite) TearDownTest() {
	for _, conn := range s.conns {
		_ = conn.Close()
	}
	s.server.Close()
}

func (s *WSSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.conns = append(s.conns, conn)
	return conn
}

func (s *WSSuite) send(conn *websocket.Conn, msgType protocol.MessageType, payload any) {
	raw, err := json.Marshal(payload)
	s.Require().NoError(err)
	s.Require().NoError(conn.WriteJSON(protocol.Envelope{Type: msgType, Payload: raw}))
}

// readRoomUpdate waits for a roomUpdate carrying the wanted player count
func (s *WSSuite) readRoomUpdate(conn *websocket.Conn, players int) protocol.RoomUpdatePayload {
	for {
		payload := s.readUntil(conn, protocol.TypeRoomUpdate)
		var update protocol.RoomUpdatePayload
		s.Require().NoError(json.Unmarshal(payload, &update))
		if len(update.Room.Players) == players {
			return update
		}
	}
}

// readUntil discards messages until one of the wanted type arrives
func (s *WSSuite) readUntil(conn *websocket.Conn, msgType protocol.MessageType) json.RawMessage {
	deadline := time.Now().Add(readTimeout)
	s.Require().NoError(conn.SetReadDeadline(deadline))
	for {
		var env struct {
			Type    protocol.MessageType `json:"type"`
			Payload json.RawMessage      `json:"payload"`
		}
		err := conn.ReadJSON(&env)
		s.Require().NoError(err, "waiting for %s", msgType)
		if env.Type == msgType {
			return env.Payload
		}
	}
}

func (s *WSSuite) TestConnectReceivesLobby() {
	conn := s.dial()

	payload := s.readUntil(conn, protocol.TypeRoomList)

	var lobby protocol.RoomListPayload
	s.Require().NoError(json.Unmarshal(payload, &lobby))
	s.Empty(lobby.Rooms)
}

func (s *WSSuite) TestFullMatchFlow() {
	alice := s.dial()
	bob := s.dial()
	s.readUntil(alice, protocol.TypeRoomList)
	s.readUntil(bob, protocol.TypeRoomList)

	// alice creates, bob joins
	s.send(alice, protocol.TypeCreateRoom, protocol.CreateRoom{RoomID: "room-1", PlayerName: "alice"})
	s.readUntil(alice, protocol.TypeRoomCreated)

	s.send(bob, protocol.TypeJoinRoom, protocol.JoinRoom{RoomID: "room-1", PlayerName: "bob"})

	// both see the 2-player room update
	update := s.readRoomUpdate(alice, 2)
	s.Equal([]string{"alice", "bob"}, update.Room.Players)
	s.readRoomUpdate(bob, 2)

	// host starts
	s.send(alice, protocol.TypeStartGame, protocol.StartGame{RoomID: "room-1", PlayerName: "alice"})
	s.readUntil(alice, protocol.TypeGameStart)
	s.readUntil(bob, protocol.TypeGameStart)
	s.readUntil(alice, protocol.TypeStateUpdate)
	s.readUntil(bob, protocol.TypeStateUpdate)

	// one round: rock beats scissors
	s.send(alice, protocol.TypeMakeMove, protocol.MakeMove{RoomID: "room-1", PlayerName: "alice", Move: "r"})
	s.send(bob, protocol.TypeMakeMove, protocol.MakeMove{RoomID: "room-1", PlayerName: "bob", Move: "s"})

	var state protocol.StateUpdatePayload
	s.Require().NoError(json.Unmarshal(s.readUntil(bob, protocol.TypeStateUpdate), &state))
	s.Equal(game.MaxHP-game.BaseDamage, state.State.P2HP)
	s.Contains(state.RoundMessage, "Player 1 wins this round!")
	s.False(state.GameOver)
}

func (s *WSSuite) TestErrorsGoOnlyToSender() {
	alice := s.dial()
	s.readUntil(alice, protocol.TypeRoomList)

	s.send(alice, protocol.TypeJoinRoom, protocol.JoinRoom{RoomID: "nope", PlayerName: "alice"})

	payload := s.readUntil(alice, protocol.TypeError)
	var errPayload protocol.ErrorPayload
	s.Require().NoError(json.Unmarshal(payload, &errPayload))
	s.Equal(model.ErrRoomNotFound.Error(), errPayload.Message)
}

func (s *WSSuite) TestMalformedFrameGetsError() {
	conn := s.dial()
	s.readUntil(conn, protocol.TypeRoomList)

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"warp"}`)))

	payload := s.readUntil(conn, protocol.TypeError)
	var errPayload protocol.ErrorPayload
	s.Require().NoError(json.Unmarshal(payload, &errPayload))
	s.Contains(errPayload.Message, "unknown message type")
}

func (s *WSSuite) TestDisconnectFreesSeat() {
	alice := s.dial()
	bob := s.dial()
	s.readUntil(alice, protocol.TypeRoomList)
	s.readUntil(bob, protocol.TypeRoomList)

	s.send(alice, protocol.TypeCreateRoom, protocol.CreateRoom{RoomID: "room-1", PlayerName: "alice"})
	s.readUntil(alice, protocol.TypeRoomCreated)
	s.send(bob, protocol.TypeJoinRoom, protocol.JoinRoom{RoomID: "room-1", PlayerName: "bob"})
	s.readRoomUpdate(bob, 2)

	s.Require().NoError(bob.Close())

	// alice sees the room drop back to one player
	update := s.readRoomUpdate(alice, 1)
	s.Equal([]string{"alice"}, update.Room.Players)
}
