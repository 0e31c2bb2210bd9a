package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kompas-ai/kompas/cmd"
)

func main() {
	// local development keys, ignored when the file is absent.
	godotenv.Load()

	rootCMD := cobra.Command{Use: "kompas"}
	rootCMD.AddCommand(
		&cmd.ServerCMD,
		&cmd.CliCompletionCMD,
		&cmd.TeleCMD,
	)
	if err := rootCMD.Execute(); err != nil {
		os.Exit(1)
	}
}
