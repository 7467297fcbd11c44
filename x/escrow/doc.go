/*
Package escrow implements two-party escrows of the native asset.

An initializer locks an amount into a custodial account derived from a caller
chosen 32 byte handle and names a recipient. The initializer later either
releases the escrow, paying the recipient, or cancels it and takes the funds
back. Either way the record is removed and the handle can never be used
again.

On creation the custodial account receives the escrowed amount plus the
reserve required by the cash configuration. The reserve always returns to the
initializer.
*/
package escrow
