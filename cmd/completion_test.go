package cmd

import (
	"flag"
	"testing"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2/predict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	global := flag.NewFlagSet("cst", flag.ContinueOnError)
	global.String("config", "", "")
	global.String("portfolio-file", "", "")
	cdr := subcommands.NewCommander(global, "cst")
	cdr.Register(cdr.HelpCommand(), "")
	Register(cdr, new(App))

	c := Completion(cdr, global)
	assert.Contains(t, c.Flags, "config")
	assert.Contains(t, c.Flags, "portfolio-file")

	for _, name := range []string{"create", "list", "rename", "delete", "add-stock", "add-crypto", "sell-stock", "sell-crypto", "show", "menu", "help"} {
		assert.Contains(t, c.Sub, name)
	}

	add := c.Sub["add-crypto"]
	require.NotNil(t, add)
	assert.Contains(t, add.Flags, "p")
	require.NotNil(t, add.Flags["y"])
	assert.Empty(t, add.Flags["y"].Predict(""), "-y is a boolean flag")
	assert.Contains(t, c.Sub["delete"].Flags, "f")
	assert.NotNil(t, c.Sub["rename"].Args)

	help, ok := c.Sub["help"].Args.(predict.Set)
	require.True(t, ok)
	assert.Contains(t, help, "show")
}
