package main

import (
	"fmt"
	"os"

	"github.com/rbetancur/amg-desk-ai/internal/interfaces/cli"
	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.UserMessage(err))
		os.Exit(1)
	}
}
