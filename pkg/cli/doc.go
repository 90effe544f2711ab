/*
Package cli provides command-line helpers for the callisto command.

Output Formatting:

Command results can be rendered as plain text or JSON:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, summary); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
	// ctx is canceled on the first shutdown signal
*/
package cli
