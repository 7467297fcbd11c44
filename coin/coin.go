package coin

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd/errors"
)

// IsCC reports whether ticker is a valid currency code: three or four
// upper case letters.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// MaxAmount bounds every coin, so that adding two valid coins cannot wrap
// a uint64.
const MaxAmount uint64 = 1<<63 - 1

// Coin is an amount of the ledger asset, counted in its smallest unit.
type Coin struct {
	Ticker string `protobuf:"bytes,1,opt,name=ticker,proto3" json:"ticker"`
	Amount uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

func NewCoin(amount uint64, ticker string) Coin {
	return Coin{Ticker: ticker, Amount: amount}
}

func NewCoinp(amount uint64, ticker string) *Coin {
	return &Coin{Ticker: ticker, Amount: amount}
}

// IsEmpty is true for a nil or zero coin.
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

func (c Coin) IsZero() bool {
	return c.Amount == 0
}

func (c Coin) IsPositive() bool {
	return c.Amount != 0
}

func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// IsGTE is false for coins of different tickers.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// Add fails with ErrCurrencyMismatch for different tickers and with
// ErrOverflow above MaxAmount. A zero coin without a ticker is neutral.
func (c Coin) Add(o Coin) (Coin, error) {
	switch {
	case c.IsZero() && c.Ticker == "":
		return o, nil
	case o.IsZero() && o.Ticker == "":
		return c, nil
	case !c.SameType(o):
		return Coin{}, errors.Wrapf(errors.ErrCurrencyMismatch, "%s + %s", c, o)
	case o.Amount > MaxAmount-c.Amount:
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", c, o)
	}
	return Coin{Ticker: c.Ticker, Amount: c.Amount + o.Amount}, nil
}

// Subtract fails with ErrInsufficientAmount instead of going below zero.
// Subtracting a zero coin of any ticker returns c.
func (c Coin) Subtract(o Coin) (Coin, error) {
	switch {
	case o.IsZero():
		return c, nil
	case !c.SameType(o):
		return Coin{}, errors.Wrapf(errors.ErrCurrencyMismatch, "%s - %s", c, o)
	case o.Amount > c.Amount:
		return Coin{}, errors.Wrapf(errors.ErrInsufficientAmount, "%s - %s", c, o)
	}
	return Coin{Ticker: c.Ticker, Amount: c.Amount - o.Amount}, nil
}

// Validate reports every problem of the coin. A zero amount is valid.
func (c Coin) Validate() error {
	var errs error
	if !IsCC(c.Ticker) {
		errs = errors.Append(errs, errors.Wrapf(errors.ErrCurrencyMismatch, "ticker %q", c.Ticker))
	}
	if c.Amount > MaxAmount {
		errs = errors.Append(errs, errors.Wrapf(errors.ErrOverflow, "amount %d", c.Amount))
	}
	return errs
}

// String is the human readable form, "<amount> <ticker>".
func (c Coin) String() string {
	amount := strconv.FormatUint(c.Amount, 10)
	if c.Ticker == "" {
		return amount
	}
	return amount + " " + c.Ticker
}

type coinPB Coin

func (c *coinPB) Reset()         { *c = coinPB{} }
func (c *coinPB) String() string { return proto.CompactTextString(c) }
func (*coinPB) ProtoMessage()    {}

func (c *Coin) Marshal() ([]byte, error) {
	return proto.Marshal((*coinPB)(c))
}

func (c *Coin) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*coinPB)(c)); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}

var humanFormat = regexp.MustCompile(`^\s*(\d+)\s*([A-Z]{3,4})\s*$`)

// ParseHumanFormat reads "<amount> <ticker>", for example "100 ESC".
func ParseHumanFormat(s string) (Coin, error) {
	m := humanFormat.FindStringSubmatch(s)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "coin %q", s)
	}
	amount, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil || amount > MaxAmount {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "coin %q", s)
	}
	return Coin{Ticker: m[2], Amount: amount}, nil
}

// UnmarshalJSON accepts the human readable string as well as the
// {"ticker", "amount"} object.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		parsed, err := ParseHumanFormat(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	// coinPB has no UnmarshalJSON, so this does not recurse.
	return json.Unmarshal(raw, (*coinPB)(c))
}
