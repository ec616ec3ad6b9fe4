package cli

import (
	"fmt"
)

// ResolveCmd resolves names to numeric OID paths.
type ResolveCmd struct {
	OutputFlags
	Names []string `arg:"" name:"name" help:"Dotted sysctl names to resolve."`
}

// Run executes the resolve command.
func (c *ResolveCmd) Run(cli *CLI) error {
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
		results[name] = mib.String()
	}

	if c.Format() == OutputFormatJSON {
		return printJSON(results)
	}
	for _, name := range c.Names {
		fmt.Printf("%s: %s\n", name, results[name])
	}
	return nil
}
