package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FocuswithJustin/JuniperParallel/core/ir"
	"github.com/FocuswithJustin/JuniperParallel/internal/reader"
)

// KeysCmd lists the verse keys of a range.
type KeysCmd struct {
	Range string `arg:"" help:"Verse range, e.g. 2:255-257 or 1"`
	Count bool   `help:"Print only the number of verses"`
}

func (c *KeysCmd) Run() error {
	r, err := ir.ParseRange(ir.Hafs, c.Range)
	if err != nil {
		return err
	}
	if c.Count {
		fmt.Fprintln(out, r.VersesInRange)
		return nil
	}
	keys, err := ir.KeysInRange(ir.Hafs, r)
	if err != nil {
		return err
	}
	for key := range keys {
		fmt.Fprintln(out, key)
	}
	return nil
}

// VersesCmd reads canonical text alongside translations.
type VersesCmd struct {
	Range        string   `arg:"" help:"Verse range, e.g. 1:1-1:7"`
	Translations []string `arg:"" optional:"" help:"Translation ids (database filenames)"`
	NoCanonical  bool     `name:"no-canonical" help:"Omit the canonical text"`
	JSON         bool     `name:"json" help:"Print the result as JSON"`
}

func (c *VersesCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := ir.ParseRange(a.reader.Versification(), c.Range)
	if err != nil {
		return err
	}
	res, err := a.reader.Verses(context.Background(), reader.Request{
		Range:        r,
		Canonical:    !c.NoCanonical,
		Translations: c.Translations,
	})
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(res)
	}
	for _, rec := range res.Records {
		fmt.Fprintf(out, "[%s]\n", rec.Key)
		if rec.HasCanonical() {
			fmt.Fprintf(out, "  %s\n", rec.CanonicalText())
		}
		for i, text := range rec.Translations {
			if text == "" {
				continue
			}
			fmt.Fprintf(out, "  %s: %s\n", res.Names[i], text)
		}
	}
	if len(res.Failed) > 0 {
		fmt.Fprintf(out, "unavailable: %s\n", strings.Join(res.Failed, ", "))
	}
	return nil
}

// DenseCmd prints one source over a range with every verse present.
type DenseCmd struct {
	Range       string `arg:"" help:"Verse range"`
	Translation string `arg:"" optional:"" help:"Translation id; the canonical text when omitted"`
	JSON        bool   `name:"json" help:"Print the items as JSON"`
}

func (c *DenseCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := ir.ParseRange(a.reader.Versification(), c.Range)
	if err != nil {
		return err
	}

	var items []ir.TextItem
	if c.Translation == "" {
		items, err = a.reader.Canonical(context.Background(), r)
	} else {
		items, err = a.reader.Translation(context.Background(), c.Translation, r)
	}
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(items)
	}
	for _, item := range items {
		fmt.Fprintf(out, "%s\t%s\n", item.Key, item.Text)
	}
	return nil
}

// NamesCmd resolves display names for translation ids.
type NamesCmd struct {
	Translations []string `arg:"" help:"Translation ids"`
}

func (c *NamesCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	names := a.reader.Names(context.Background(), c.Translations)
	for i, id := range c.Translations {
		fmt.Fprintf(out, "%s\t%s\n", id, names[i])
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
