package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run the table server"`
	Create  CreateCmd        `cmd:"" help:"Create a game"`
	List    ListCmd          `cmd:"" help:"List games"`
	State   StateCmd         `cmd:"" help:"Show a game's state"`
	Join    JoinCmd          `cmd:"" help:"Seat a player"`
	Leave   LeaveCmd         `cmd:"" help:"Remove a player from their seat"`
	Deal    DealCmd          `cmd:"" help:"Advance a game to its next phase"`
	Reset   ResetCmd         `cmd:"" help:"Reset a game to WAITING"`
	Discard DiscardCmd       `cmd:"" help:"Discard a game"`
	Watch   WatchCmd         `cmd:"" help:"Watch a game in the terminal"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdemtable"),
		kong.Description("Texas Hold'em table server and client"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
