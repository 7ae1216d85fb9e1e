/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* Keys may be composite. Prefix scans iterate over all entities that share
the beginning of a composite key, in ascending key order.
* Sequences give monotonic counters stored next to the bucket.

Values are serialized with the go-amino binary encoding. Stored models must
not contain maps, as amino cannot encode them deterministically.
*/
package orm
