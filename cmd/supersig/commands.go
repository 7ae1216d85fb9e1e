package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/app"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/journal"
	"github.com/iov-one/supersig/std"
	"github.com/iov-one/supersig/x/multisig"
)

// openApp opens the state stored under the home directory. The returned
// function releases the resources.
func openApp(conf Config) (*std.Application, func(), error) {
	if err := os.MkdirAll(conf.Home, 0755); err != nil {
		return nil, nil, errors.Wrapf(errors.ErrInput, "create home: %s", err)
	}
	logger, err := conf.Logger()
	if err != nil {
		return nil, nil, err
	}
	kv, err := std.CommitKVStore(conf.StatePath())
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){}
	if c, ok := kv.(interface{ Close() }); ok {
		closers = append(closers, c.Close)
	}
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var sink supersig.EventSink
	if path := conf.JournalPath(); path != "" {
		j, err := journal.Open(path)
		if err != nil {
			release()
			return nil, nil, err
		}
		closers = append(closers, func() { j.Close() })
		sink = j
	}

	a, err := std.NewApplication(kv, sink, logger)
	if err != nil {
		release()
		return nil, nil, err
	}
	return a, release, nil
}

// InitCmd loads the genesis file into an empty state.
func InitCmd(ctx context.Context, conf Config, args []string) error {
	if len(args) != 1 {
		return errors.Wrap(errors.ErrInput, "usage: init <genesis.json>")
	}
	gen, err := app.LoadGenesis(args[0])
	if err != nil {
		return err
	}
	a, release, err := openApp(conf)
	if err != nil {
		return err
	}
	defer release()

	if err := a.InitChain(gen.AppOptions); err != nil {
		return err
	}
	id := a.LatestVersion()
	fmt.Printf("Initialized %s in %s at version %d (%X)\n", gen.ChainID, conf.Home, id.Version, id.Hash)
	return nil
}

// RunCmd applies the operations of a script file.
func RunCmd(ctx context.Context, conf Config, args []string) error {
	if len(args) != 1 {
		return errors.Wrap(errors.ErrInput, "usage: run <script.jsonl>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "open script: %s", err)
	}
	defer f.Close()

	a, release, err := openApp(conf)
	if err != nil {
		return err
	}
	defer release()
	return runScript(ctx, a, f, os.Stdout)
}

// AccountCmd prints the account of a group. It needs no state since the
// address depends only on the group ID.
func AccountCmd(w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.Wrap(errors.ErrInput, "usage: account <group-id>")
	}
	id, err := multisig.ParseGroupID(args[0])
	if err != nil {
		return err
	}
	addr := multisig.GroupAccount(id)
	b32, err := addr.Bech32()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "hex\t%s\nbech32\t%s\n", addr, b32)
	return nil
}

// StateCmd prints a group together with its live payloads.
func StateCmd(ctx context.Context, conf Config, w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.Wrap(errors.ErrInput, "usage: state <group-id>")
	}
	id, err := multisig.ParseGroupID(args[0])
	if err != nil {
		return err
	}
	conf.Journal = "off"
	a, release, err := openApp(conf)
	if err != nil {
		return err
	}
	defer release()
	return printGroup(w, a, id)
}

func printGroup(w io.Writer, a *std.Application, id []byte) error {
	db := a.ReadStore()
	g, err := a.Engine.Group(db, id)
	if err != nil {
		return err
	}
	free, _, err := a.Bank.Balance(db, g.Account)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "account\t%s\n", g.Account)
	fmt.Fprintf(tw, "balance\t%d\n", free)
	fmt.Fprintf(tw, "threshold\t%d of %d\n", g.Threshold, len(g.Members))
	for _, m := range g.Members {
		fmt.Fprintf(tw, "member\t%s\n", m)
	}

	payloads, err := a.Engine.Payloads(db, id)
	if err != nil {
		return err
	}
	for _, p := range payloads {
		st, err := a.Engine.PayloadState(db, id, p.Hash)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "payload\t%s\t%s\t%d/%d\tdeposit %d\n",
			hex.EncodeToString(p.Hash), st.Status, st.Approvals, st.Threshold, p.Deposit)
	}
	return tw.Flush()
}

// EventsCmd prints the journaled events, optionally of a single type.
func EventsCmd(ctx context.Context, conf Config, w io.Writer, args []string) error {
	path := conf.JournalPath()
	if path == "" {
		return errors.Wrap(errors.ErrInput, "journal is disabled")
	}
	var q journal.Query
	if len(args) > 0 {
		q.Type = args[0]
	}
	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	events, err := j.Events(ctx, q)
	if err != nil {
		return err
	}
	for _, e := range events {
		fmt.Fprintf(w, "%d\t%s", e.Height, e.Type)
		for _, attr := range e.Attributes {
			fmt.Fprintf(w, "\t%s=%s", attr.Key, attr.Value)
		}
		fmt.Fprintln(w)
	}
	return nil
}
