package mcp

import (
	"github.com/felixgeelhaar/doable/adapter/cli"
	"github.com/felixgeelhaar/doable/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container) *cli.App {
	cliApp := cli.NewApp(container.Reporter, container)
	cliApp.SetRefresh(container.Refresh)
	cliApp.SetDefaultWindow(container.DefaultWindow)
	if container.Health != nil {
		cliApp.SetHealth(container.Health)
	}
	return cliApp
}
