package active

import (
	"testing"

	"github.com/lainio/err2/assert"
)

func TestActiveCtx(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	ctx := New()
	assert.ThatNot(ctx.Active())
	assert.Equal("", ctx.ID())

	ctx.Set("alice")
	assert.That(ctx.Active())
	assert.Equal("alice", ctx.ID())

	ctx.Set("bob")
	assert.Equal("bob", ctx.ID())

	ctx.Clear()
	assert.ThatNot(ctx.Active())
	assert.Equal("", ctx.ID())
}
