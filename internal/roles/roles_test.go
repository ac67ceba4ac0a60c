package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	for _, r := range All() {
		got, ok := Parse(string(r))
		assert.True(t, ok, "role %s should parse", r)
		assert.Equal(t, r, got)
	}

	got, ok := Parse("superuser")
	assert.False(t, ok)
	assert.Equal(t, Role(""), got)

	_, ok = Parse("")
	assert.False(t, ok)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Platform Admin", PlatformAdmin.Label())
	assert.Equal(t, "Support Staff", SupportStaff.Label())
	assert.Equal(t, "Warehouse Admin", WarehouseAdmin.Label())
	assert.Equal(t, "Unknown", Role("root").Label())
}

func TestAllIsClosedSet(t *testing.T) {
	all := All()
	assert.Len(t, all, 3)
	for _, r := range all {
		assert.True(t, r.IsValid())
	}
}
