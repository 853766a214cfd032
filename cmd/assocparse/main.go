package main

import (
	"fmt"
	"os"

	"github.com/teranos/assocparse/cmd/assocparse/commands"
	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/logger"
)

func main() {
	defer logger.Cleanup()

	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
