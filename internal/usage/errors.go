package usage

import "errors"

// ErrLimitReached means the weekly allowance is spent; handlers map it to
// a 429 with code limit_reached.
var ErrLimitReached = errors.New("limit reached")
