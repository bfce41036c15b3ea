package command

import "context"

// Client consumes telegram updates until ctx is done.
type Client interface {
	HandleCommand(ctx context.Context) error
}
