// Package clipboard copies analysis summaries to the system clipboard so a
// capture can be pasted into notes without opening the deck.
package clipboard

import (
	"fmt"

	"golang.design/x/clipboard"
)

var available bool

// Init probes clipboard access. On headless systems it fails and Write
// becomes a no-op error; the capture pipeline keeps working without it.
func Init() error {
	if err := clipboard.Init(); err != nil {
		return err
	}
	available = true
	return nil
}

// Write places text on the system clipboard.
func Write(text string) error {
	if !available {
		return fmt.Errorf("clipboard not initialized")
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
