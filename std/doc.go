/*
Package std contains standard implementations of a number
of components.

It wires the multisig engine with the bank ledger, the message codec and
a committed store, and is a good place to see how the various components
fit together.
*/
package std
