package export

import (
	"github.com/atotto/clipboard"

	"github.com/flowkit/flowkit/pkg/errors"
)

// CopyText places s on the system clipboard. On failure the caller must
// suppress any "copied" confirmation; the write is not retried.
func CopyText(s string) error {
	if err := clipboard.WriteAll(s); err != nil {
		return errors.Wrap(errors.ErrCodeClipboard, err, "copy to clipboard")
	}
	return nil
}
