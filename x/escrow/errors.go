package escrow

import "github.com/iov-one/escrowd/errors"

// ErrPartyMismatch is returned when a message names parties different from
// the ones stored with the escrow.
var ErrPartyMismatch = errors.Register(1010, "party mismatch")
