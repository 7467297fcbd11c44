/*
Package cash defines a simple implementation of sending the native asset
between accounts.

Every address holds at most one wallet with a single balance of the native
ticker. There is no logic in the coins, except that the balance may not go
below zero. Thus, this implementation is referred to as cash. Simple and safe.

A wallet, once created, is never removed. A zero balance wallet still marks
its address as used, which lets other extensions refuse to reuse derived
custody addresses.
*/
package cash
