package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/rpsarena-go/internal/api/response"
)

const requestTimeout = 10 * time.Second

func getJSON(serverURL, path string, out any) error {
	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Get(serverURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func newHealthCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			var health response.Health
			if err := getJSON(opts.ServerURL, "/api/v1/health", &health); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\nconnections: %d\nrooms: %d\n",
				health.Status, health.Connections, health.Rooms)
			return nil
		},
	}
}

func newRoomsCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List live rooms",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			var list response.RoomList
			if err := getJSON(opts.ServerURL, "/api/v1/rooms", &list); err != nil {
				return err
			}
			if len(list.Rooms) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no rooms")
				return nil
			}
			for _, room := range list.Rooms {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d/2\thost=%s\n",
					room.ID, room.Status, len(room.Players), room.HostID)
			}
			return nil
		},
	}
}
