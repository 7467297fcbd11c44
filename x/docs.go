/*
Package x holds the extensions of escrowd.

Each sub-package owns one part of the state together with its messages,
handlers and genesis loader: cash keeps wallets, escrow keeps escrows and
their custody, sigs keeps signer nonces and authenticates transactions.
utils has the decorators shared by the whole stack.

Extensions never check signatures on their own. They receive an
Authenticator and ask it which addresses signed the transaction.
*/
package x
