package feed

import (
	"context"
	"errors"
	"net/url"
)

// The two failure classes callers can tell apart: the network being down
// versus the source misbehaving. Both leave the batch empty.
var (
	ErrTransport = errors.New("news source unreachable")
	ErrUpstream  = errors.New("news source returned an unusable response")
)

// classify maps a raw fetch error onto the taxonomy. Connectivity and
// timeout problems are transport failures; anything the server actively
// answered with (bad status, malformed body) is an upstream failure.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var uerr *url.Error
	if errors.As(err, &uerr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTransport
	}
	return ErrUpstream
}
