/*
Package escrowd defines all common interfaces used to tie together
the escrow ledger: storage, transactions, messages, handlers and the
decorators wrapped around them.

The heart of the application lives in x/escrow: an initializer locks
an amount of the native token in a dedicated escrow account that names
a recipient. The initializer can later release the funds to the
recipient or cancel the escrow and take them back. Either way the
escrow account is closed.

We pass context through context.Context between app, middleware, and
handlers. To do so, this package defines some common keys to store
info, such as block height and chain id. Each extension, such as sigs,
may add its own keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want
to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level
modules overwriting the value (eg. height, header).
*/
package escrowd
