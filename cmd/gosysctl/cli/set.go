package cli

import (
	"fmt"
	"strings"
)

// SetCmd sets sysctl values.
type SetCmd struct {
	Assignments []string `arg:"" name:"name=value" help:"Assignments, e.g. kern.coredump=0."`
}

// Run executes the set command.
func (c *SetCmd) Run(cli *CLI) error {
	client, err := cli.Client()
	if err != nil {
		return err
	}

	for _, assignment := range c.Assignments {
		name, value, ok := strings.Cut(assignment, "=")
		if !ok || name == "" {
			return fmt.Errorf("expected name=value, got %q", assignment)
		}
		mib, err := client.Resolve(name)
		if err != nil {
			return err
		}
		format, err := client.Format(mib)
		if err != nil {
			return err
		}
		encoded, err := parseValue(format, value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := client.Write(mib, encoded); err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", name, value)
	}
	return nil
}
