/*
Package bank is a minimal single currency ledger.

Every address owns a wallet with a free and a reserved balance. Reserved
funds cannot be spent until they are unreserved. The controller is the
currency collaborator of the multisig extension: deposits are reserved from
the submitter's free balance and released back once a payload is resolved.
*/
package bank
