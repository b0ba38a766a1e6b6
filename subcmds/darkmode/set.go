// Copyright (c) 2025 BVK Chaitanya

package darkmode

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/bvk/coindash/store"
	"github.com/bvk/coindash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Set struct {
	cmdutil.DBFlags
}

func (c *Set) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("set", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return "set", fset, cli.CmdFunc(c.run)
}

func (c *Set) Purpose() string {
	return "Sets the dark mode preference to on or off"
}

func (c *Set) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (on|off) argument")
	}
	enabled, err := parseSwitch(args[0])
	if err != nil {
		return err
	}

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return fmt.Errorf("could not create db instance: %w", err)
	}
	defer closer()

	if err := store.SetDarkMode(ctx, db, enabled); err != nil {
		return err
	}
	fmt.Println(enabled)
	return nil
}

// parseSwitch accepts on/off in addition to the strconv.ParseBool forms.
func parseSwitch(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid dark mode value %q; want on or off", s)
	}
	return v, nil
}
