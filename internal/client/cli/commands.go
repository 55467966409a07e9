package cli

import (
	"context"
	"fmt"
)

// Run выполняет команду; args не включают имя команды
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "refresh":
		return c.runRefresh(ctx)
	case "status":
		return c.runStatus(ctx)
	case "whoami":
		return c.runWhoami(ctx)
	case "channel":
		if len(args) != 1 {
			return fmt.Errorf("usage: channel <userName>")
		}
		return c.runChannel(ctx, args[0])
	case "history":
		return c.runHistory(ctx)
	case "password":
		return c.runChangePassword(ctx)
	default:
		PrintUsage(c.io)
		return fmt.Errorf("unknown command: %s", command)
	}
}
