package escrowd

import (
	"encoding/json"
	"time"

	"github.com/iov-one/escrowd/errors"
)

// UnixTime is a block time in seconds since the epoch. Records keep it
// instead of time.Time so their encoding is a single integer.
type UnixTime int64

// AsUnixTime truncates t to seconds.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// Time returns t in UTC.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

func (t UnixTime) String() string {
	return t.Time().Format(time.RFC3339)
}

// Validate rejects moments before the epoch.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrapf(errors.ErrInvalidState, "time %d before epoch", int64(t))
	}
	return nil
}

// UnmarshalJSON accepts the number of seconds or an RFC3339 string.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var secs int64
	if err := json.Unmarshal(raw, &secs); err != nil {
		var at time.Time
		if err := json.Unmarshal(raw, &at); err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "time %s", raw)
		}
		secs = at.Unix()
	}
	parsed := UnixTime(secs)
	if err := parsed.Validate(); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	*t = parsed
	return nil
}
