package escrowd

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/iov-one/escrowd/errors"
)

// Condition names what can authorize an action, as
// "<extension>/<type>/<data>". A signature by a key yields the condition
// "sigs/ed25519/<pubkey>", an escrow custody account is owned by
// "escrow/handle/<handle>".
type Condition []byte

var conditionFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// NewCondition joins the extension, the type and the data.
func NewCondition(ext, typ string, data []byte) Condition {
	c := make(Condition, 0, len(ext)+len(typ)+len(data)+2)
	c = append(c, ext+"/"+typ+"/"...)
	return append(c, data...)
}

// Parse splits the condition into extension, type and data.
func (c Condition) Parse() (ext, typ string, data []byte, err error) {
	m := conditionFormat.FindSubmatch(c)
	if m == nil {
		return "", "", nil, errors.Wrapf(errors.ErrInvalidInput, "condition %X", []byte(c))
	}
	return string(m[1]), string(m[2]), m[3], nil
}

// Address is the account controlled by this condition.
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals reports whether both conditions are byte equal.
func (c Condition) Equals(o Condition) bool {
	return bytes.Equal(c, o)
}

// Validate requires the "<extension>/<type>/<data>" format.
func (c Condition) Validate() error {
	_, _, _, err := c.Parse()
	return err
}

// String prints the data part in hex, for example "sigs/ed25519/7F3A...".
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("invalid condition %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}
