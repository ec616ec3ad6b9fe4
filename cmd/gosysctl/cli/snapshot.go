package cli

import (
	"context"
	"fmt"

	sysctl "github.com/frobware/go-sysctl"
	"github.com/frobware/go-sysctl/snapshot"
)

// SnapshotCmd captures and compares tunable snapshots.
type SnapshotCmd struct {
	DB string `name:"db" help:"Snapshot database path (defaults to the config value)."`

	Save SnapshotSaveCmd `cmd:"" help:"Capture the current tunables under a label."`
	List SnapshotListCmd `cmd:"" help:"List saved snapshots."`
	Diff SnapshotDiffCmd `cmd:"" help:"Show differing tunables between two snapshots."`
}

func (c *SnapshotCmd) openStore(cli *CLI) (*snapshot.Store, error) {
	path := c.DB
	if path == "" {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Snapshot.Path
	}
	return snapshot.New(path)
}

// SnapshotSaveCmd captures the readable scalar and string tunables
// below a prefix.
type SnapshotSaveCmd struct {
	Prefix string `help:"Name prefix to capture, e.g. kern. Empty captures everything."`
	Label  string `arg:"" help:"Label for the snapshot."`
}

// Run executes the snapshot save command.
func (c *SnapshotSaveCmd) Run(cli *CLI, parent *SnapshotCmd) error {
	client, err := cli.Client()
	if err != nil {
		return err
	}
	store, err := parent.openStore(cli)
	if err != nil {
		return err
	}
	defer store.Close()

	var prefix sysctl.MIB
	if c.Prefix != "" {
		prefix, err = client.Resolve(c.Prefix)
		if err != nil {
			return err
		}
	}

	entries := make(map[string]string)
	for entry, err := range client.Walk(prefix) {
		if err != nil {
			return err
		}
		if !entry.Format.Readable || entry.Format.Kind == sysctl.KindNode {
			continue
		}
		// Unreadable or opaque nodes are skipped, not fatal: a
		// snapshot is a capture of what this caller can see.
		buf, err := client.Read(entry.MIB)
		if err != nil {
			continue
		}
		value, err := renderValue(entry.Format, buf)
		if err != nil {
			continue
		}
		entries[entry.Name] = value
	}

	id, err := store.Save(context.Background(), c.Label, entries)
	if err != nil {
		return err
	}
	fmt.Printf("snapshot %d: %q, %d tunables\n", id, c.Label, len(entries))
	return nil
}

// SnapshotListCmd lists saved snapshots.
type SnapshotListCmd struct {
	OutputFlags
}

// Run executes the snapshot list command.
func (c *SnapshotListCmd) Run(cli *CLI, parent *SnapshotCmd) error {
	store, err := parent.openStore(cli)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if c.Format() == OutputFormatJSON {
		return printJSON(snaps)
	}
	for _, s := range snaps {
		fmt.Printf("%d\t%s\t%s\n", s.ID, s.TakenAt.Format("2006-01-02 15:04:05"), s.Label)
	}
	return nil
}

// SnapshotDiffCmd shows differing tunables between two snapshots.
type SnapshotDiffCmd struct {
	OutputFlags
	From int64 `arg:"" help:"Snapshot ID to compare from."`
	To   int64 `arg:"" help:"Snapshot ID to compare to."`
}

// Run executes the snapshot diff command.
func (c *SnapshotDiffCmd) Run(cli *CLI, parent *SnapshotCmd) error {
	store, err := parent.openStore(cli)
	if err != nil {
		return err
	}
	defer store.Close()

	changes, err := store.Diff(context.Background(), c.From, c.To)
	if err != nil {
		return err
	}
	if c.Format() == OutputFormatJSON {
		return printJSON(changes)
	}
	for _, ch := range changes {
		switch ch.Op {
		case snapshot.OpAdded:
			fmt.Printf("+ %s = %s\n", ch.Name, ch.To)
		case snapshot.OpRemoved:
			fmt.Printf("- %s = %s\n", ch.Name, ch.From)
		case snapshot.OpChanged:
			fmt.Printf("~ %s: %s -> %s\n", ch.Name, ch.From, ch.To)
		}
	}
	return nil
}
