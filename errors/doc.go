/*
Package errors defines the registered root errors of escrowd and the
helpers to wrap them.

A handler returns an error that wraps a root, for example

	return errors.Wrapf(errors.ErrNotFound, "escrow %X", id)

and the code of the root becomes the ABCI code of the response. An error
without a root is internal, its log is replaced by "internal error" outside
of debug mode. Extensions register their own roots with Register.

The first Wrap records a stack trace. %v prints the message followed by the
place it was created, %+v prints the whole stack.
*/
package errors
