// Package logging provides file-based logging with rotation for codeengine.
// When the --debug flag is set, comprehensive logs are written to ~/.codeengine/logs/
// for debugging and troubleshooting.
//
// Without --debug, SetupMCPMode still logs to that file at debug level and
// never to stderr, since 'serve' speaks MCP over stdio.
package logging
