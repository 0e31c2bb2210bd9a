package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kompas-ai/kompas/api"
)

var cliEndpoint = ""

func init() {
	CliCompletionCMD.Flags().StringVar(&cliEndpoint, "addr", "http://localhost:11823", "kompas server endpoint")
}

var CliCompletionCMD = cobra.Command{
	Use:  "chat",
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return startChat(cmd.Context(), cmd.OutOrStdout())
	},
}

func startChat(ctx context.Context, out io.Writer) error {
	c := api.NewClient(cliEndpoint, "")

	s, err := c.CreateSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		input := scanner.Text()
		switch input {
		case "/exit":
			return nil
		case "/clear":
			if _, err := c.ResetSession(ctx, s.ID); err != nil {
				fmt.Fprintf(out, ">error: %s \n", err)
				return nil
			}
			fmt.Fprintf(out, ">context clear\n\n")
			continue
		}

		fmt.Fprintf(out, "\n")
		reply, err := c.Send(ctx, s.ID, input)
		if err != nil {
			fmt.Fprintf(out, ">error: %s \n", err)
			return nil
		}

		fmt.Fprintf(out, ">model: %s \n\n", reply.Content)
	}
	return nil
}
