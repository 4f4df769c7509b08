package pdpmcp_test

import (
	"testing"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_Validate(t *testing.T) {
	t.Parallel()

	guard := pdpmcp.NewGuard("https://developer.payments.jpmorgan.com")

	t.Run("accepts portal URL", func(t *testing.T) {
		t.Parallel()

		got, err := guard.Validate("https://developer.payments.jpmorgan.com/docs/commerce/checkout")
		require.NoError(t, err)
		assert.Equal(t, "https://developer.payments.jpmorgan.com/docs/commerce/checkout", got)
	})

	t.Run("rejects empty URL", func(t *testing.T) {
		t.Parallel()

		_, err := guard.Validate("")
		assert.Equal(t, pdpmcp.EINVALID, pdpmcp.ErrorCode(err))
	})

	t.Run("rejects relative URL", func(t *testing.T) {
		t.Parallel()

		_, err := guard.Validate("/docs/commerce/checkout")
		assert.Equal(t, pdpmcp.EINVALID, pdpmcp.ErrorCode(err))
	})

	t.Run("rejects non-https scheme", func(t *testing.T) {
		t.Parallel()

		_, err := guard.Validate("http://developer.payments.jpmorgan.com/docs")
		assert.Equal(t, pdpmcp.EINVALID, pdpmcp.ErrorCode(err))
	})

	t.Run("rejects host outside allow-list", func(t *testing.T) {
		t.Parallel()

		_, err := guard.Validate("https://example.com/docs")
		assert.Equal(t, pdpmcp.EINVALID, pdpmcp.ErrorCode(err))
	})

	t.Run("rejects lookalike subdomain", func(t *testing.T) {
		t.Parallel()

		_, err := guard.Validate("https://evil.developer.payments.jpmorgan.com/docs")
		assert.Equal(t, pdpmcp.EINVALID, pdpmcp.ErrorCode(err))
	})

	t.Run("strips fragment", func(t *testing.T) {
		t.Parallel()

		got, err := guard.Validate("https://developer.payments.jpmorgan.com/docs/checkout#section-2")
		require.NoError(t, err)
		assert.Equal(t, "https://developer.payments.jpmorgan.com/docs/checkout", got)
	})

	t.Run("strips tracking parameters but keeps others", func(t *testing.T) {
		t.Parallel()

		got, err := guard.Validate("https://developer.payments.jpmorgan.com/docs/checkout?utm_source=x&utm_campaign=y&gclid=z&version=2")
		require.NoError(t, err)
		assert.Equal(t, "https://developer.payments.jpmorgan.com/docs/checkout?version=2", got)
	})

	t.Run("collapses trailing slash on non-root path", func(t *testing.T) {
		t.Parallel()

		got, err := guard.Validate("https://developer.payments.jpmorgan.com/docs/checkout/")
		require.NoError(t, err)
		assert.Equal(t, "https://developer.payments.jpmorgan.com/docs/checkout", got)
	})

	t.Run("lowercases host", func(t *testing.T) {
		t.Parallel()

		got, err := guard.Validate("https://Developer.Payments.JPMorgan.com/docs")
		require.NoError(t, err)
		assert.Equal(t, "https://developer.payments.jpmorgan.com/docs", got)
	})

	t.Run("normalization is idempotent", func(t *testing.T) {
		t.Parallel()

		first, err := guard.Validate("https://developer.payments.jpmorgan.com/docs/checkout/?utm_source=x#top")
		require.NoError(t, err)

		second, err := guard.Validate(first)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestGuard_Allows(t *testing.T) {
	t.Parallel()

	guard := pdpmcp.NewGuard("https://developer.payments.jpmorgan.com")

	assert.True(t, guard.Allows("https://developer.payments.jpmorgan.com/docs/checkout"))
	assert.False(t, guard.Allows("https://example.com/docs"))
	assert.False(t, guard.Allows(""))
}
