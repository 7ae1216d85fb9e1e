package supersig

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContextHeight(t *testing.T) {
	bg := context.Background()
	_, ok := GetHeight(bg)
	assert.False(t, ok)

	ctx := WithHeight(bg, 7)
	h, ok := GetHeight(ctx)
	assert.True(t, ok)
	assert.EqualValues(t, 7, h)
	assert.Panics(t, func() { WithHeight(ctx, 9) })

	// the height survives a logger change
	h, _ = GetHeight(WithLogInfo(ctx, "module", "multisig"))
	assert.EqualValues(t, 7, h)
}

func TestContextLogger(t *testing.T) {
	bg := context.Background()
	assert.Equal(t, DefaultLogger, GetLogger(bg))

	logger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, logger)
	assert.Equal(t, logger, GetLogger(ctx))
	assert.NotEqual(t, logger, GetLogger(WithLogInfo(ctx, "group", "1")))
}

func TestNewEvent(t *testing.T) {
	addr := NewCondition("test", "seq", []byte{1}).Address()
	e := NewEvent("payload_submitted", "submitter", addr, "size", 12, "raw", []byte{0xff})

	assert.Equal(t, "payload_submitted", e.Type)
	assert.Len(t, e.Attributes, 3)

	got, ok := e.Attr("submitter")
	assert.True(t, ok)
	assert.Equal(t, addr.String(), string(got))

	got, ok = e.Attr("size")
	assert.True(t, ok)
	assert.Equal(t, "12", string(got))

	got, ok = e.Attr("raw")
	assert.True(t, ok)
	assert.Equal(t, []byte{0xff}, got)

	_, ok = e.Attr("missing")
	assert.False(t, ok)

	assert.Panics(t, func() { NewEvent("odd", "key") })
}
