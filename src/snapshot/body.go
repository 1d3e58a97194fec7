package snapshot

import (
	"bytes"
	"io"
)

type replayableBody struct {
	*bytes.Reader
}

func (replayableBody) Close() error { return nil }

// NewReplayableBody wraps an in-memory copy of a request body so it can be
// re-read (it is seekable). The buffering middleware installs this on every
// request whose body may be needed for a snapshot later.
func NewReplayableBody(data []byte) io.ReadCloser {
	return replayableBody{bytes.NewReader(data)}
}
