/*
Package cli provides helpers shared by the h2scaffold commands.

Output Formatting:

Commands that print results accept --output text|json:

	format, err := cli.ParseOutputFormat(flags.output)
	if err != nil {
		return err
	}
	return cli.Write(cmd.OutOrStdout(), format, result)

Errors:

ConfigError and CommandError wrap failures so the root command can report
them; ExitCode turns any failure into exit status 1.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()
*/
package cli
