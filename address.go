package escrowd

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/escrowd/errors"
)

const (
	// AddressLength is the size of every account address.
	AddressLength = 20
	// AddressHRP prefixes the bech32 form of an address.
	AddressHRP = "esc"
)

// Address identifies an account. It is the truncated sha256 digest of the
// condition that controls the account, so it cannot be reversed into a
// public key or an escrow handle.
type Address []byte

// NewAddress derives the address of the given condition bytes.
func NewAddress(cond []byte) Address {
	if cond == nil {
		return nil
	}
	sum := sha256.Sum256(cond)
	return Address(sum[:AddressLength])
}

// ParseAddress reads the hex form of an address, or the bech32 form when
// prefixed with "bech32:". An empty string is the nil address.
func ParseAddress(s string) (Address, error) {
	var (
		raw []byte
		err error
	)
	switch {
	case s == "":
		return nil, nil
	case strings.HasPrefix(s, "bech32:"):
		raw, err = decodeBech32(strings.TrimPrefix(s, "bech32:"))
	default:
		raw, err = hex.DecodeString(s)
		if err != nil {
			err = errors.Wrapf(errors.ErrInvalidInput, "hex address: %s", err)
		}
	}
	if err != nil {
		return nil, err
	}
	addr := Address(raw)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// Validate requires exactly AddressLength bytes.
func (a Address) Validate() error {
	switch len(a) {
	case 0:
		return errors.Wrap(errors.ErrEmpty, "address")
	case AddressLength:
		return nil
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "address of %d bytes", len(a))
	}
}

// Equals reports whether both addresses are byte equal.
func (a Address) Equals(o Address) bool {
	return bytes.Equal(a, o)
}

// Clone returns a copy that does not share memory with a.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address(nil), a...)
}

// String is the upper case hex form, used in logs and in genesis files.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 is the display form handed to users, "esc1...".
func (a Address) Bech32() (string, error) {
	words, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	s, err := bech32.Encode(AddressHRP, words)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return s, nil
}

func decodeBech32(s string) ([]byte, error) {
	hrp, words, err := bech32.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "bech32: %s", err)
	}
	if hrp != AddressHRP {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "bech32 prefix %q", hrp)
	}
	raw, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "bech32: %s", err)
	}
	return raw, nil
}

// MarshalJSON writes the hex form.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts every form understood by ParseAddress.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
