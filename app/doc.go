/*
Package app contains the host side building blocks: a Router that maps
message paths to handlers, a Codec for the binary message encoding, a
Dispatcher that turns opaque payload bytes back into messages and delivers
them, and a StoreApp that sequences operations over a committing store.
*/
package app
