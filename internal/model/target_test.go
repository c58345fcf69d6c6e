package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetKeyComposition(t *testing.T) {
	assert.Equal(t, "web-01", TargetKey("web-01", ""))
	assert.Equal(t, "web-01!http", TargetKey("web-01", "http"))
}

func TestTargetValidate(t *testing.T) {
	t.Run("host target", func(t *testing.T) {
		target := &Target{HostName: " web-01 "}

		require.NoError(t, target.Validate())

		assert.Equal(t, "web-01", target.HostName)
		assert.Equal(t, "web-01", target.Key())
		assert.False(t, target.IsService())
	})

	t.Run("service target", func(t *testing.T) {
		target := &Target{HostName: "web-01", ServiceName: "http"}

		require.NoError(t, target.Validate())

		assert.Equal(t, "web-01!http", target.Key())
		assert.True(t, target.IsService())
	})

	t.Run("missing host name", func(t *testing.T) {
		target := &Target{ServiceName: "http"}
		assert.Error(t, target.Validate())
	})

	t.Run("separator in host name", func(t *testing.T) {
		target := &Target{HostName: "web!01"}
		assert.Error(t, target.Validate())
	})

	t.Run("separator in service name", func(t *testing.T) {
		target := &Target{HostName: "web-01", ServiceName: "ht!tp"}
		assert.Error(t, target.Validate())
	})

	t.Run("key too long", func(t *testing.T) {
		target := &Target{HostName: strings.Repeat("a", 256)}
		assert.Error(t, target.Validate())
	})
}
