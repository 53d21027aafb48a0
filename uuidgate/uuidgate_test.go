package uuidgate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsValidUUIDv7(t *testing.T) {
	assert.True(t, IsValidUUIDv7("018fdb31-0798-78a2-b4c9-e145d5b5b88e"))
	assert.True(t, IsValidUUIDv7("018FDB31-0798-78A2-B4C9-E145D5B5B88E"))
	assert.False(t, IsValidUUIDv7("invalid-uuid"))
	assert.False(t, IsValidUUIDv7(""))
}

func TestRejectsOtherVersions(t *testing.T) {
	v1, err := uuid.NewUUID()
	if err == nil {
		assert.False(t, IsValidUUIDv7(v1.String()))
	}
	v4 := uuid.New()
	assert.False(t, IsValidUUIDv7(v4.String()))
}

func TestAcceptsGeneratedV7(t *testing.T) {
	v7, err := uuid.NewV7()
	if err != nil {
		t.Skip("uuid.NewV7 unavailable")
	}
	assert.True(t, IsValidUUIDv7(v7.String()))
}

func TestNeverPanics(t *testing.T) {
	inputs := []string{"", " ", "\x00", "018fdb31-0798-78a2-b4c9-e145d5b5b88", "018fdb31-0798-78a2-b4c9-e145d5b5b88ee"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { IsValidUUIDv7(in) })
	}
}
