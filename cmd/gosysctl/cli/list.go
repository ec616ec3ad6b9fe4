package cli

import (
	"fmt"

	sysctl "github.com/frobware/go-sysctl"
)

// ListCmd lists the sysctl tree under a prefix.
type ListCmd struct {
	OutputFlags
	Values bool   `short:"v" help:"Include current values (readable nodes only)."`
	Prefix string `arg:"" optional:"" help:"Name prefix to list, e.g. kern. Empty lists everything."`
}

type listEntry struct {
	Name     string `json:"name"`
	OID      string `json:"oid"`
	Kind     string `json:"kind"`
	Fmt      string `json:"fmt,omitempty"`
	Writable bool   `json:"writable"`
	Value    string `json:"value,omitempty"`
}

// Run executes the list command.
func (c *ListCmd) Run(cli *CLI) error {
	client, err := cli.Client()
	if err != nil {
		return err
	}

	var prefix sysctl.MIB
	if c.Prefix != "" {
		prefix, err = client.Resolve(c.Prefix)
		if err != nil {
			return err
		}
	}

	var entries []listEntry
	for entry, err := range client.Walk(prefix) {
		if err != nil {
			return err
		}
		le := listEntry{
			Name:     entry.Name,
			OID:      entry.MIB.String(),
			Kind:     entry.Format.Kind.String(),
			Fmt:      entry.Format.Fmt,
			Writable: entry.Format.Writable,
		}
		if c.Values && entry.Format.Readable && entry.Format.Kind != sysctl.KindNode {
			// Values are best-effort here; a node that cannot
			// be read (permissions, transient) is still listed.
			if buf, err := client.Read(entry.MIB); err == nil {
				if v, err := renderValue(entry.Format, buf); err == nil {
					le.Value = v
				}
			}
		}
		entries = append(entries, le)
	}

	if c.Format() == OutputFormatJSON {
		return printJSON(entries)
	}
	for _, le := range entries {
		if le.Value != "" {
			fmt.Printf("%s: %s\n", le.Name, le.Value)
		} else {
			fmt.Printf("%s (%s)\n", le.Name, le.Kind)
		}
	}
	return nil
}
