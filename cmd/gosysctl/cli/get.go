package cli

import (
	"fmt"
)

// GetCmd reads sysctl values by name.
type GetCmd struct {
	OutputFlags
	ValueOnly bool     `short:"n" help:"Print values without names."`
	Names     []string `arg:"" name:"name" help:"Dotted sysctl names, e.g. kern.hostname."`
}

// Run executes the get command.
func (c *GetCmd) Run(cli *CLI) error {
	client, err := cli.Client()
	if err != nil {
		return err
	}

	results := make(map[string]string, len(c.Names))
	for _, name := range c.Names {
		mib, err := client.Resolve(name)
		if err != nil {
			return err
		}
		format, err := client.Format(mib)
		if err != nil {
			return err
		}
		buf, err := client.Read(mib)
		if err != nil {
			return err
		}
		value, err := renderValue(format, buf)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		results[name] = value
	}

	if c.Format() == OutputFormatJSON {
		return printJSON(results)
	}
	for _, name := range c.Names {
		if c.ValueOnly {
			fmt.Println(results[name])
		} else {
			fmt.Printf("%s: %s\n", name, results[name])
		}
	}
	return nil
}
