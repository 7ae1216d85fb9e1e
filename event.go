package supersig

import (
	"fmt"

	"github.com/tendermint/tendermint/libs/common"
)

// Event is a notification emitted for external observers whenever the state
// visibly changes. Attributes are tendermint tags so they can be forwarded
// to any tag based indexer without conversion.
type Event struct {
	Type       string
	Height     int64
	Attributes []common.KVPair
}

// NewEvent returns an event of the given type with the attributes built from
// key/value pairs. Values are formatted with fmt.Sprint unless they are byte
// slices or strings.
func NewEvent(typ string, keyvals ...interface{}) Event {
	if len(keyvals)%2 != 0 {
		panic("keyvals must be pairs")
	}
	attrs := make([]common.KVPair, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		attrs = append(attrs, common.KVPair{
			Key:   []byte(fmt.Sprint(keyvals[i])),
			Value: attrValue(keyvals[i+1]),
		})
	}
	return Event{Type: typ, Attributes: attrs}
}

func attrValue(v interface{}) []byte {
	switch v := v.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return []byte(fmt.Sprint(v))
	}
}

// Attr returns the value of the first attribute with the given key.
func (e Event) Attr(key string) ([]byte, bool) {
	for _, a := range e.Attributes {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return nil, false
}

// EventSink is implemented by external observers of the state changes.
type EventSink interface {
	Publish(ctx Context, events []Event) error
}

// NopSink drops all events.
type NopSink struct{}

var _ EventSink = NopSink{}

func (NopSink) Publish(Context, []Event) error { return nil }
