// Package clipboard copies derived URLs to the system clipboard and reports
// the outcome as a transient notification.
package clipboard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/pders01/prlink/internal/logger"
)

const (
	SuccessMessage = "Pull request URL copied to clipboard !"
	FailureMessage = "Failed copying to clipboard. Please copy manually from the result field."
)

// Writer puts text on a clipboard
type Writer interface {
	WriteAll(text string) error
}

// Notifier shows transient notifications to the user
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// System writes to the operating system clipboard
type System struct{}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available on this system")
	}
	return clipboard.WriteAll(text)
}

// Copy writes u to w and notifies n of the outcome. It does nothing when ok
// is false. Failures, including a panicking writer, are logged and turned
// into an error notification; nothing escapes to the caller.
func Copy(ctx context.Context, w Writer, n Notifier, u string, ok bool) (copied bool) {
	if !ok {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Clipboard write panicked", fmt.Errorf("%v", r))
			n.Error(FailureMessage)
			copied = false
		}
	}()

	if err := w.WriteAll(u); err != nil {
		logger.Error(ctx, "Failed copying to clipboard", err)
		n.Error(FailureMessage)
		return false
	}

	n.Success(SuccessMessage)
	return true
}
