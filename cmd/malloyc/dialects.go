package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/fzakaria/malloy/dialectmap"
)

// DialectsCmd lists the dialects the core's dialect-aware expression hooks
// know how to target.
type DialectsCmd struct{}

func (c *DialectsCmd) Run(ctx *Context) error {
	for _, d := range dialectmap.List() {
		divNote := "errors"
		if d.SupportsDivisionByZeroNull {
			divNote = "null"
		}
		fmt.Printf("%s  quote=%s  div/0=%s\n", color.CyanString("%-10s", d.Name), d.QuoteChar, divNote)
	}
	return nil
}
