package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowlist_EmptyListAllowsEveryone(t *testing.T) {
	allowlist := NewAllowlist("")
	assert.True(t, allowlist.Allows("anyone@example.com"))
}

func TestAllowlist_OnlyListedEmailsPass(t *testing.T) {
	allowlist := NewAllowlist("alice@example.com, Bob@Example.com")

	assert.True(t, allowlist.Allows("alice@example.com"))
	assert.True(t, allowlist.Allows("BOB@example.com"), "matching must ignore case")
	assert.False(t, allowlist.Allows("carol@example.com"))
}

func TestAllowlist_IgnoresBlankEntries(t *testing.T) {
	allowlist := NewAllowlist(" , alice@example.com ,, ")

	assert.True(t, allowlist.Allows("alice@example.com"))
	assert.False(t, allowlist.Allows("carol@example.com"))
}
