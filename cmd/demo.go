package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/scopemesh"
	"github.com/hupe1980/scopemesh/core"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted context management session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			mesh := scopemesh.New()

			const sessionID = "demo"

			script := []struct {
				messages []string
				command  string
			}{
				{
					messages: []string{"Please review this JSON parser for bugs."},
					command:  `scope review -m "Reviewing the JSON parser"`,
				},
				{
					messages: []string{
						"Looking at the tokenizer first.",
						"The string reader does not handle escaped quotes.",
					},
					command: `note -m "Found bug: unescaped quotes break the tokenizer"`,
				},
				{
					messages: []string{"Checking number parsing next.", "Number parsing looks correct."},
					command:  `goto main -m "Review done, one bug found in string handling"`,
				},
				{command: "scopes"},
				{command: "notes main"},
				{command: "notes review"},
			}

			for _, step := range script {
				for _, msg := range step.messages {
					mesh.AddMessage(sessionID, core.NewUserMessage(msg))
					fmt.Fprintf(out, "  + %s\n", msg)
				}

				fmt.Fprintf(out, "> ctx %s\n", step.command)

				result, event := mesh.Execute(sessionID, step.command)
				fmt.Fprintln(out, result)

				if event != nil {
					fmt.Fprintf(out, "  [event] %s %v\n", event.Type, event.Payload)
				}

				fmt.Fprintln(out)
			}

			fmt.Fprintln(out, mesh.Store(sessionID).Status())

			return nil
		},
	}
}
