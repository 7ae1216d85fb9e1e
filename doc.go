/*
Package supersig holds the types shared by every package of the module:
conditions and addresses, the key value store interfaces, messages,
handlers, events and the operation context.

The authorization engine lives in x/multisig. The std package combines it
with the bank ledger into an application, and cmd/supersig drives that
application from the command line.
*/
package supersig
