package types

import "time"

// CurrentNanoTimestamp returns the current time in nanoseconds. Declared
// as a variable so tests can pin it.
var CurrentNanoTimestamp = func() int64 {
	return time.Now().UnixNano()
}

// CurrentUnixTime returns the current time in unix seconds. Declared as
// a variable so tests can pin it.
var CurrentUnixTime = func() uint64 {
	return uint64(time.Now().Unix())
}
