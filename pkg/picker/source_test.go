package picker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	src := SourceFunc[string](func(_ context.Context, filter string) ([]Item[string], error) {
		return Values(filter + "1"), nil
	})

	res := Fetch[string](context.Background(), src, FetchRequest{Seq: 7, Filter: "q"})

	assert.Equal(t, uint64(7), res.Seq)
	assert.Nil(t, res.Err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "q1", res.Items[0].Value)
}

func TestFetch_WrapsError(t *testing.T) {
	cause := errors.New("rate limited")
	src := SourceFunc[string](func(context.Context, string) ([]Item[string], error) {
		return nil, cause
	})

	res := Fetch[string](context.Background(), src, FetchRequest{Seq: 1, Filter: "q"})

	require.NotNil(t, res.Err)
	assert.ErrorIs(t, res.Err, cause)
	assert.Equal(t, "q", res.Err.Filter)
	assert.Equal(t, "rate limited", res.Err.Message())
	assert.Contains(t, res.Err.Error(), `filter "q"`)
}

func TestFetch_RecoversPanic(t *testing.T) {
	src := SourceFunc[string](func(context.Context, string) ([]Item[string], error) {
		panic("kaboom")
	})

	res := Fetch[string](context.Background(), src, FetchRequest{Seq: 3})

	require.NotNil(t, res.Err)
	assert.Contains(t, res.Err.Message(), "kaboom")
	assert.Equal(t, uint64(3), res.Seq)
}

func TestFetch_NilSource(t *testing.T) {
	res := Fetch[string](context.Background(), nil, FetchRequest{Seq: 1})

	assert.Nil(t, res.Err)
	assert.Empty(t, res.Items)
}

func TestStatusHost(t *testing.T) {
	assert.Equal(t, HostLoading, StatusUnloaded.Host())
	assert.Equal(t, HostLoading, StatusFiltering.Host())
	assert.Equal(t, HostIdle, StatusLoaded.Host())
	assert.Equal(t, HostDone, StatusSubmitted.Host())
	assert.Equal(t, "filtering", StatusFiltering.String())
}

func TestAnswerValue(t *testing.T) {
	_, ok := Answer[int]{}.Value()
	assert.False(t, ok)

	v, ok := Answer[int]{Values: []int{4, 2}}.Value()
	assert.True(t, ok)
	assert.Equal(t, 4, v)
}

func TestItemConstructors(t *testing.T) {
	sep := Sep[int]("")
	assert.True(t, sep.IsSeparator())
	assert.Equal(t, DefaultSeparator, sep.SeparatorText())
	assert.False(t, sep.selectable())

	o := Opt(Option[int]{Value: 3, DisabledReason: "later"})
	assert.True(t, o.IsDisabled())
	assert.Equal(t, "3", o.Label())
}
