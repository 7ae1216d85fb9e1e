/*
Package sigs provides the identity of the caller of an operation.

Signatures are verified by the host before an operation is sequenced. The
verified public keys are turned into conditions and attached to the
context with WithSigners, where Authenticate finds them.
*/
package sigs
