package reqid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// New returns a request id like "tpp-20250103T120000Z-9f86d081",
// suitable for the TPP-Request-ID and TPP-Transaction-ID headers the
// account information API requires on every call.
func New() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("tpp-%s-%s", time.Now().UTC().Format("20060102T150405Z"), hex.EncodeToString(b[:]))
}
