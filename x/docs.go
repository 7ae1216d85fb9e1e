/*
Package x contains the extensions of supersig and the helpers they share.

Extensions implement handlers and engines that are combined together by the
std package. The helpers in this package allow an extension to learn who
authorized the current operation without depending on a concrete
authentication scheme.
*/
package x
