package selection

import "github.com/atotto/clipboard"

// CopyHTML writes the current selection's markup to the system
// clipboard. Best-effort: headless environments without a clipboard
// return the underlying error and callers typically only log it.
func (c *Coordinator) CopyHTML() error {
	return clipboard.WriteAll(c.HTML())
}
