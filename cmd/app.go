// Package cmd implements the CLI application converting brokerage
// exports into ACB transactions.
package cmd

import (
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package calls Register() to declare subcommands, and Execute()
// on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&convertCmd{}, "questrade")
	c.Register(&fmvCmd{}, "questrade")

	c.Register(&extractCmd{}, "etrade")

	c.Register(&csv2xlsxCmd{}, "tools")
	c.Register(&normalizeCmd{}, "tools")
	c.Register(&pdftextCmd{}, "tools")

	c.Register(&topicCmd{}, "documentation")
}
