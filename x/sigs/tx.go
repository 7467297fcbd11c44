package sigs

import (
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
)

// SignedTx is implemented by transactions carrying signatures.
type SignedTx interface {
	// GetSignBytes is the deterministic encoding of the transaction
	// without its signatures. Every signature is made over these bytes.
	GetSignBytes() ([]byte, error)
	GetSignatures() []*StdSignature
}

// StdSignature binds a signature to the key that made it and to the
// sequence of that key at signing time.
type StdSignature struct {
	Pubkey    *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey"`
	Signature *crypto.Signature `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature"`
	Sequence  int64             `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence"`
}

// Validate only checks that all fields are present. Verification happens
// in the Decorator.
func (s *StdSignature) Validate() error {
	switch {
	case s.Pubkey == nil || len(s.Pubkey.Ed25519) == 0:
		return errors.Wrap(errors.ErrUnauthorized, "no public key")
	case s.Signature == nil || len(s.Signature.Ed25519) == 0:
		return errors.Wrap(errors.ErrUnauthorized, "no signature")
	case s.Sequence < 0:
		return errors.Wrapf(ErrInvalidSequence, "sequence %d", s.Sequence)
	}
	return nil
}
