package op

import (
	"fmt"
	"sort"
	"strings"

	"opwire/record"
	"opwire/tree"
)

// Conn is one connection of a Let operation: read From, write To. An empty
// To passes the field through under its source path. A nil Type declares
// the bare "present at any type" contract on both sides.
type Conn struct {
	From string
	To   string
	Type tree.Type
}

// Let rewires fields: each connection reads its source path from the input
// and writes it at its destination path. Reading a missing source path
// fails with *record.NotFoundError at run time.
func Let(conns ...Conn) (*Operation, error) {
	if len(conns) == 0 {
		return nil, fmt.Errorf("Let: no connections")
	}

	norm := make([]Conn, len(conns))
	inputs := tree.Set{}
	outputs := tree.Set{}

	for i, c := range conns {
		if c.From == "" {
			return nil, fmt.Errorf("Let: connection %d has no source path", i)
		}

		if c.To == "" {
			c.To = c.From
		}

		norm[i] = c

		inputs.Add(connKey(c.From, c.Type))
		outputs.Add(connKey(c.To, c.Type))
	}

	run := func(rec record.Record) (record.Record, error) {
		out := record.Record{}

		for _, c := range norm {
			v, err := record.Get(rec, c.From)
			if err != nil {
				return nil, err
			}

			if err := record.Set(out, c.To, v); err != nil {
				return nil, err
			}
		}

		return out, nil
	}

	return New(Config{
		Name:    letName(norm),
		Inputs:  inputs,
		Outputs: outputs,
	}, run)
}

// Pass lets the named fields through unchanged.
func Pass(names ...string) (*Operation, error) {
	conns := make([]Conn, len(names))
	for i, n := range names {
		conns[i] = Conn{From: n}
	}

	return Let(conns...)
}

func connKey(name string, t tree.Type) tree.Key {
	if t == nil {
		return tree.K(name)
	}

	return tree.Typed(name, t)
}

func letName(conns []Conn) string {
	parts := make([]string, len(conns))
	for i, c := range conns {
		parts[i] = fmt.Sprintf("%s -> %s", c.From, c.To)
	}

	sort.Strings(parts)

	return "Let(" + strings.Join(parts, ", ") + ")"
}
