package credman

import "errors"

// ErrRejected is wrapped by Save for every cookie that may not be stored for
// the response URL (foreign domain or public suffix).
var ErrRejected = errors.New("credman: cookie rejected")
