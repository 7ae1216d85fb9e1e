/*
Package errors provides the error kinds used across supersig.

Every error returned by an operation should wrap one of the root errors
declared with Register, so that callers can test its kind with Is and
clients can branch on its Code. Extensions declare their own root errors
during initialization, see x/multisig for an example.

	var ErrNotAMember = errors.Register(1031, "not a member")
	...
	return errors.Wrapf(ErrNotAMember, "group %s", id)

The first Wrap of an error records a stack trace. Formatting with %v
appends the file and line where the error was wrapped, %+v prints the
whole trace. Report turns an error into the code and message shown to a
client, hiding internal details unless debug is set.
*/
package errors
