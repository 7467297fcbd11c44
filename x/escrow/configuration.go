package escrow

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/gconf"
)

const confPkg = "escrow"

// SelfEscrowPolicy decides if the initializer may name itself as the
// recipient. The empty policy is the default and means deny, a patch with
// the empty policy leaves the stored one unchanged.
type SelfEscrowPolicy string

const (
	SelfEscrowDeny  SelfEscrowPolicy = "deny"
	SelfEscrowAllow SelfEscrowPolicy = "allow"
)

// Validate accepts the empty policy and the two named ones.
func (p SelfEscrowPolicy) Validate() error {
	switch p {
	case "", SelfEscrowDeny, SelfEscrowAllow:
		return nil
	}
	return errors.Wrapf(errors.ErrInvalidInput, "self escrow policy %q", string(p))
}

// Configuration of the escrow extension. Without a configuration in the
// genesis file the defaults apply and cannot be changed later.
type Configuration struct {
	Owner      escrowd.Address  `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	SelfEscrow SelfEscrowPolicy `protobuf:"bytes,2,opt,name=self_escrow,json=selfEscrow,proto3" json:"self_escrow,omitempty"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() escrowd.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var err error
	if len(c.Owner) != 0 {
		err = errors.AppendField(err, "Owner", c.Owner.Validate())
	}
	return errors.AppendField(err, "SelfEscrow", c.SelfEscrow.Validate())
}

// SelfEscrowAllowed reports if an escrow may pay its own initializer.
func (c *Configuration) SelfEscrowAllowed() bool {
	return c.SelfEscrow == SelfEscrowAllow
}

// LoadConfiguration returns the stored configuration or the defaults if none
// was ever saved.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confPkg, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{}, nil
	default:
		return nil, errors.Wrap(err, "load escrow configuration")
	}
}
