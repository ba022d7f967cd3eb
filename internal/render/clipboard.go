package render

import "github.com/atotto/clipboard"

// copyToClipboard puts text on the system clipboard.
func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
