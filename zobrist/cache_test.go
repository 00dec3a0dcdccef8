package zobrist

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"tictactoe/fixed"
	"tictactoe/game"
)

func TestCacheLifecycle(t *testing.T) {
	is := is.New(t)
	c := NewCache(1, WithBuckets(31))

	var b game.Board
	is.NoErr(b.Play(0, game.X))
	key := c.Key(&b, game.O)

	is.NoErr(c.Store(key, fixed.Half, 5))
	e, ok := c.Lookup(key)
	is.True(ok)
	is.Equal(e.Move, game.Move(5))
	is.Equal(c.Len(), 1)

	c.Clear()
	_, ok = c.Lookup(key)
	is.True(!ok)
	is.Equal(c.Key(&b, game.O), key) // keys survive a clear

	is.NoErr(c.Close())
	is.True(errors.Is(c.Close(), ErrClosed))
	is.True(errors.Is(c.Store(key, fixed.One, 1), ErrClosed))
	_, ok = c.Lookup(key)
	is.True(!ok)
}

func TestCachesAreIndependent(t *testing.T) {
	is := is.New(t)
	a := NewCache(9, WithBuckets(17))
	b := NewCache(9, WithBuckets(17))

	is.NoErr(a.Store(77, fixed.One, 2))
	_, ok := b.Lookup(77)
	is.True(!ok)
	is.Equal(a.Keys().Seed(), b.Keys().Seed())
}
