/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Every extension keeps a single configuration object under the "_c:<pkg>" key.
The object is loaded from the genesis "conf" section and can be updated
later by a message signed by the configured owner. Not being able to load a
configuration is a critical condition, callers are expected to abort the
operation.
*/
package gconf
