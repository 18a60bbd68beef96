// Package display formats user-facing warnings for the terminal.
//
// Warnings carry a title with optional message, affected paths and a
// suggestion:
//
//	w := display.ScanWarning(result.Errors)
//	w.Display(os.Stderr, logger.IsTerminal(os.Stderr))
//
// ANSI color is emitted only when the caller asks for it, so output
// redirected to a file or pipe stays plain.
package display
