package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/scopemesh/command"
	"github.com/hupe1980/scopemesh/core"
	"github.com/hupe1980/scopemesh/logging"
)

func newReplCmd() *cobra.Command {
	var (
		keepMessages bool
		verbose      bool
	)

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive ctx command shell",
		Long: `Starts an interactive shell speaking the ctx command grammar:

  scope <name> -m "<text>"   create a scope and switch to it
  goto <name> -m "<text>"    switch to an existing scope
  note -m "<text>"           record a note, clearing working memory
  scopes                     list all scopes
  notes [scope]              show a scope's note log

Type 'exit' or 'quit' to leave.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.Logger(logging.NoOpLogger{})
			if verbose {
				logger = logging.NewDefaultSlogLogger()
			}

			store := core.NewStore()
			dispatcher := command.NewDispatcher(store, func(o *command.Options) {
				o.KeepMessagesOnNote = keepMessages
				o.Logger = logger
			})

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())

			for {
				fmt.Fprintf(out, "(%s) ctx> ", store.CurrentScope())

				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}

				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "exit", "quit":
					return nil
				}

				result, event := dispatcher.Dispatch(line)
				fmt.Fprintln(out, result)

				if verbose && event != nil {
					fmt.Fprintf(out, "  [event] %s %v\n", event.Type, event.Payload)
				}
			}
		},
	}

	replCmd.Flags().BoolVar(&keepMessages, "keep-messages", false, "do not clear working memory on note commands")
	replCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print emitted events and debug logs")

	return replCmd
}
