/*
Package orm keeps typed records in prefixed regions of the key value store.

A Bucket holds one type of record under "<name>:<key>" and may keep
secondary indexes, unique or not, under "_i.<name>_<index>:<value>". An
escrow is stored in the "esc" bucket and indexed by its initializer and
recipient, so all escrows of one party are found without a scan.

Records encode themselves, usually as protobuf. A bucket only needs their
Marshal and Unmarshal methods and never the concrete type.
*/
package orm
