package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/imgspeak/internal/archive"
	"codeberg.org/snonux/imgspeak/internal/cli"
	"codeberg.org/snonux/imgspeak/internal/log"
	"codeberg.org/snonux/imgspeak/internal/models"
	"codeberg.org/snonux/imgspeak/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
		cli.ApplyConfig(flags)
		log.SetLevel(flags.LogLevel)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context(), args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, args []string, flags *cli.Flags) error {
	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx)
	}

	url := cli.DefaultImageURL
	if len(args) > 0 {
		url = args[0]
	}

	proc, err := processor.NewFromFlags(ctx, flags)
	if err != nil {
		return err
	}

	// Handle --archive flag
	if flags.Archive {
		if _, err := archive.ArchiveOutput(proc.OutputFile()); err != nil {
			return fmt.Errorf("failed to archive previous output: %w", err)
		}
	}

	res, err := proc.Run(ctx, url)
	if err != nil {
		return err
	}

	fmt.Printf("\nDone! %s\n", res.Outcome())
	return nil
}
