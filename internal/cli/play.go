package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/rpsarena-go/internal/dependencies/random"
	"github.com/mcoot/rpsarena-go/internal/protocol"
)

const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newPlayCmd(opts *Options) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "play [room-id]",
		Short: "Join a room and play from the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.PlayerName == "" {
				return fmt.Errorf("--name is required")
			}

			roomID := ""
			if len(args) == 1 {
				roomID = args[0]
			}
			if roomID == "" {
				if !create {
					return fmt.Errorf("a room id is required unless --create is set")
				}
				roomID = random.New().String(6, roomCodeAlphabet)
			}

			return play(cmd, opts, roomID, create)
		},
	}

	cmd.Flags().BoolVarP(&create, "create", "c", false, "create the room instead of joining it")
	return cmd
}

func wsURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"
	return u.String(), nil
}

func play(cmd *cobra.Command, opts *Options, roomID string, create bool) error {
	target, err := wsURL(opts.ServerURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), target, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	out := cmd.OutOrStdout()

	send := func(msgType protocol.MessageType, payload any) error {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		return conn.WriteJSON(protocol.Envelope{Type: msgType, Payload: raw})
	}

	if err := send(protocol.TypeIdentify, protocol.Identify{PlayerName: opts.PlayerName}); err != nil {
		return err
	}
	joinType := protocol.TypeJoinRoom
	joinPayload := any(protocol.JoinRoom{RoomID: roomID, PlayerName: opts.PlayerName})
	if create {
		joinType = protocol.TypeCreateRoom
		joinPayload = protocol.CreateRoom{RoomID: roomID, PlayerName: opts.PlayerName}
	}
	if err := send(joinType, joinPayload); err != nil {
		return err
	}

	fmt.Fprintf(out, "room %s as %s\n", roomID, opts.PlayerName)
	fmt.Fprintln(out, "commands: start | r | p | s | y | n | quit")

	// Server events print as they arrive; stdin commands are translated to
	// wire messages. The read loop ending means the connection dropped.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var env struct {
				Type    protocol.MessageType `json:"type"`
				Payload json.RawMessage      `json:"payload"`
			}
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			printEvent(out, env.Type, env.Payload)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-done:
			return fmt.Errorf("disconnected")
		default:
		}

		var err error
		switch line := strings.ToLower(strings.TrimSpace(scanner.Text())); line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "start":
			err = send(protocol.TypeStartGame, protocol.StartGame{RoomID: roomID, PlayerName: opts.PlayerName})
		case "r", "p", "s":
			err = send(protocol.TypeMakeMove, protocol.MakeMove{RoomID: roomID, PlayerName: opts.PlayerName, Move: line})
		case "y", "yes":
			err = send(protocol.TypePlayAgainChoice, protocol.PlayAgainChoice{RoomID: roomID, PlayerName: opts.PlayerName, Choice: "yes"})
		case "n", "no":
			err = send(protocol.TypePlayAgainChoice, protocol.PlayAgainChoice{RoomID: roomID, PlayerName: opts.PlayerName, Choice: "no"})
		default:
			fmt.Fprintf(out, "unknown command %q\n", line)
		}
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}

func printEvent(out io.Writer, msgType protocol.MessageType, payload json.RawMessage) {
	switch msgType {
	case protocol.TypeRoomList:
		var p protocol.RoomListPayload
		if err := json.Unmarshal(payload, &p); err == nil {
			fmt.Fprintf(out, "[lobby] %d room(s)\n", len(p.Rooms))
		}
	case protocol.TypeRoomUpdate:
		var p protocol.RoomUpdatePayload
		if err := json.Unmarshal(payload, &p); err == nil {
			fmt.Fprintf(out, "[room] players: %s (%s)\n", strings.Join(p.Room.Players, ", "), p.Room.Status)
		}
	case protocol.TypeGameStart:
		fmt.Fprintln(out, "[game] started, pick r/p/s")
	case protocol.TypeStateUpdate:
		var p protocol.StateUpdatePayload
		if err := json.Unmarshal(payload, &p); err == nil {
			if p.RoundMessage != "" {
				fmt.Fprint(out, p.RoundMessage)
			}
			fmt.Fprintf(out, "[hp] p1=%d p2=%d\n", p.State.P1HP, p.State.P2HP)
			if p.GameOver {
				fmt.Fprintln(out, "[game] over, play again? (y/n)")
			}
		}
	case protocol.TypePlayAgainUpdate:
		var p protocol.PlayAgainUpdatePayload
		if err := json.Unmarshal(payload, &p); err == nil {
			fmt.Fprintf(out, "[game] %s\n", p.Status)
		}
	case protocol.TypeError:
		var p protocol.ErrorPayload
		if err := json.Unmarshal(payload, &p); err == nil {
			fmt.Fprintf(out, "[error] %s\n", p.Message)
		}
	}
}
