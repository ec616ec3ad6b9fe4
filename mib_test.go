package sysctl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sysctl "github.com/frobware/go-sysctl"
)

func TestMIB_String(t *testing.T) {
	assert.Equal(t, "1.14.7", sysctl.MIB{1, 14, 7}.String())
	assert.Equal(t, "", sysctl.MIB{}.String())
}

func TestParseMIB(t *testing.T) {
	mib, err := sysctl.ParseMIB("1.24")
	require.NoError(t, err)
	assert.Equal(t, sysctl.MIB{1, 24}, mib)

	for _, bad := range []string{"", "1..2", "a.b", "1.-2", "1.2.x"} {
		_, err := sysctl.ParseMIB(bad)
		assert.Error(t, err, "ParseMIB(%q)", bad)
	}
}

func TestParseMIB_TooDeep(t *testing.T) {
	deep := "1"
	for i := 0; i < 24; i++ {
		deep += ".1"
	}
	_, err := sysctl.ParseMIB(deep)
	assert.Error(t, err)
}

func TestMIB_HasPrefix(t *testing.T) {
	m := sysctl.MIB{1, 14, 7}
	assert.True(t, m.HasPrefix(sysctl.MIB{1}))
	assert.True(t, m.HasPrefix(sysctl.MIB{1, 14}))
	assert.True(t, m.HasPrefix(m))
	assert.True(t, m.HasPrefix(nil))
	assert.False(t, m.HasPrefix(sysctl.MIB{2}))
	assert.False(t, m.HasPrefix(sysctl.MIB{1, 14, 7, 1}))
}

func TestMIB_Clone_IsIndependent(t *testing.T) {
	orig := sysctl.MIB{1, 2}
	clone := orig.Clone()
	clone[0] = 9
	assert.Equal(t, sysctl.MIB{1, 2}, orig)
	assert.Nil(t, sysctl.MIB(nil).Clone())
}
