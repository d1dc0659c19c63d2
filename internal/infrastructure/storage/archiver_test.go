package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportKey(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		name   string
		prefix string
		export string
		want   string
	}{
		{"prefixed", "exports/", "activity-log", "exports/activity-log-20240309T130507Z.csv"},
		{"no prefix", "", "inventory", "inventory-20240309T130507Z.csv"},
		{"nested prefix", "/team/a/", "inventory", "team/a/inventory-20240309T130507Z.csv"},
		{"csv suffix dropped", "x", "inventory.csv", "x/inventory-20240309T130507Z.csv"},
		{"unsafe characters", "", "../drill bits/ä", "drill-bits-20240309T130507Z.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ExportKey(tt.prefix, tt.export, at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}

	for _, name := range []string{"", "/", "..", ".csv"} {
		_, err := ExportKey("exports", name, at)
		assert.ErrorIs(t, err, ErrEmptyName, name)
	}
}

func TestMemoryArchiver(t *testing.T) {
	m := NewMemoryArchiver("exports")
	m.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	data := []byte("Item,Quantity\nHose,2\n")
	key, err := m.Archive(context.Background(), "inventory", data)
	require.NoError(t, err)
	assert.Equal(t, "exports/inventory-20240102T030405Z.csv", key)

	data[0] = 'X'
	stored, ok := m.Object(key)
	require.True(t, ok)
	assert.Equal(t, "Item,Quantity\nHose,2\n", string(stored), "archive keeps its own copy")

	_, err = m.Archive(context.Background(), "", data)
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, []string{key}, m.Keys())
}
