package namesync

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrTransferInProgress is returned when a transfer is requested while
// another one is running.
var ErrTransferInProgress = errors.New("a transfer is already in progress")

// PartialResolutionError reports that the deadline passed before every
// output was named. The names that were found are still pushed.
type PartialResolutionError struct {
	Resolved int
	Total    int
}

func (e *PartialResolutionError) Error() string {
	return fmt.Sprintf("resolved %d/%d channel names", e.Resolved, e.Total)
}
