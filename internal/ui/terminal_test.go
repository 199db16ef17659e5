package ui

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalError(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, "eauth-console")

	term.Error(context.Background(), "Permission denied!")
	assert.Contains(t, buf.String(), "Permission denied!")
}

func TestTerminalRedirect(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, "eauth-console")

	term.Redirect(context.Background(), "/login")
	assert.Contains(t, buf.String(), "eauth-console login")
	assert.Equal(t, "/login", term.Redirected())

	buf.Reset()
	term.Redirect(context.Background(), "/role")
	assert.Contains(t, buf.String(), "eauth-console role list")

	buf.Reset()
	term.Redirect(context.Background(), "/elsewhere")
	assert.Contains(t, buf.String(), "/elsewhere")
}
