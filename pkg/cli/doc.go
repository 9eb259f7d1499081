/*
Package cli provides helpers shared by the fudbuddy command.

Printer writes colored status lines and assistant replies, or indented JSON
when the user asks for --output json:

	p := cli.NewPrinter(os.Stdout, cli.FormatText)
	p.Success("cache cleared (%d entries)", n)

ExitCode maps command errors to exit statuses, with configuration problems
(ConfigError) distinguished from other failures.

SetupSignalHandler returns a context canceled on SIGINT or SIGTERM, which
the run and chat commands use to stop the server or abandon a stream.
*/
package cli
