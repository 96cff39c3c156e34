package testutil

import (
	"context"
	"time"

	"passpoll/pkg/requestcontext"
)

// ContextAt returns a background context pinned to the given Unix second, as
// the request-time middleware would pin it.
func ContextAt(unix int64) context.Context {
	return requestcontext.WithTime(context.Background(), time.Unix(unix, 0))
}
