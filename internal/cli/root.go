// Package cli implements the arena command line client: room inspection
// over the HTTP API and interactive play over the websocket.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Options holds the client's global configuration
type Options struct {
	ServerURL  string
	PlayerName string
}

// NewRootCmd creates the root arena command
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	v := viper.New()
	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "arena",
		Short:         "Client for the rock-paper-scissors battle server.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	fs := cmd.PersistentFlags()
	fs.StringVarP(&opts.ServerURL, "server", "s", "http://localhost:8080", "server base URL (env: ARENA_SERVER)")
	fs.StringVarP(&opts.PlayerName, "name", "n", "", "player display name (env: ARENA_NAME)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(newHealthCmd(opts))
	cmd.AddCommand(newRoomsCmd(opts))
	cmd.AddCommand(newPlayCmd(opts))

	return cmd
}
