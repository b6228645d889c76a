package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJournalEntry(t *testing.T) {
	t.Run("creates valid entry with defaults", func(t *testing.T) {
		entry, err := NewJournalEntry("web01.example.com", CategoryCommand, "puppet agent -t", "", "triggered from UI")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, "web01.example.com", entry.NodeID)
		assert.Equal(t, JournalStatusPending, entry.Status)
		assert.False(t, entry.CreatedAt.IsZero())
	})

	t.Run("requires node id", func(t *testing.T) {
		_, err := NewJournalEntry("", CategoryCommand, "uptime", JournalStatusSuccess, "")
		assert.ErrorIs(t, err, ErrJournalNodeRequired)
	})

	t.Run("requires action", func(t *testing.T) {
		_, err := NewJournalEntry("web01", CategoryTask, "", JournalStatusSuccess, "")
		assert.ErrorIs(t, err, ErrJournalActionRequired)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := NewJournalEntry("web01", "reboot", "shutdown -r now", JournalStatusSuccess, "")
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewJournalEntry("web01", CategoryPackage, "install nginx", "maybe", "")
		assert.ErrorIs(t, err, ErrInvalidJournalStatus)
	})
}
