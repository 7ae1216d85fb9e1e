/*
Package journal persists published events in a sqlite database so that
external observers can read the history of the state changes.
*/
package journal
