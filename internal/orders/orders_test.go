package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusRejected} {
		require.True(t, ValidStatus(s))
	}
	require.False(t, ValidStatus("open"))
	require.False(t, ValidStatus(""))
}

func TestDetailPath(t *testing.T) {
	id, isDetail, valid := detailPath("/api/shop/orders/42")
	require.True(t, isDetail)
	require.True(t, valid)
	require.Equal(t, int64(42), id)

	_, isDetail, _ = detailPath("/api/shop/orders")
	require.False(t, isDetail)

	_, isDetail, _ = detailPath("/api/shop/orders/")
	require.False(t, isDetail)

	_, isDetail, valid = detailPath("/api/shop/orders/abc")
	require.True(t, isDetail)
	require.False(t, valid)

	_, isDetail, valid = detailPath("/api/shop/orders/42/items")
	require.True(t, isDetail)
	require.False(t, valid)
}
