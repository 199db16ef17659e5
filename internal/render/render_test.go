package render

import (
	"bytes"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vera-byte/eauth-console/pkg/model"
)

func sampleRoles() []model.Role {
	service := "iam"
	return []model.Role{{ID: 1, Name: "admin", Service: &service}, {ID: 2, Name: "viewer"}}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Out: &buf, Format: FormatTable}

	roles := sampleRoles()
	err := p.Print(roles, Roles(roles), &model.Pagination{Page: 1, Pages: 1, PerPage: 10, Total: 2})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "viewer")
	assert.Contains(t, out, "iam")
	assert.Contains(t, out, "2 total")
}

func TestPrintJSONAndYAML(t *testing.T) {
	roles := sampleRoles()

	var buf bytes.Buffer
	p := &Printer{Out: &buf, Format: FormatJSON}
	require.NoError(t, p.Print(roles, Roles(roles), nil))
	assert.Contains(t, buf.String(), `"name": "admin"`)

	buf.Reset()
	p.Format = FormatYAML
	require.NoError(t, p.Print(roles, Roles(roles), nil))
	assert.Contains(t, buf.String(), "name: admin")
	assert.Contains(t, buf.String(), "service: iam")

	p.Format = "xml"
	assert.Error(t, p.Print(roles, Roles(roles), nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestLogTablesKeepUnparsedTimes(t *testing.T) {
	table := SecurityLogs([]model.SecurityLog{
		{ID: 1, Username: "alice", OperateDatetime: "2024-01-01T12:00:00"},
		{ID: 2, Username: "bob", OperateDatetime: "soon"},
	})
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2024-01-01 12:00:00", table.Rows[0][1])
	assert.Equal(t, "soon", table.Rows[1][1])
}

func TestRoutesSorted(t *testing.T) {
	routes := SortRoutes(gin.RoutesInfo{
		{Method: "POST", Path: "/login", Handler: "console.(*Server).login-fm"},
		{Method: "GET", Path: "/api", Handler: "console.listView.func1"},
		{Method: "GET", Path: "/login", Handler: "console.(*Server).loginView-fm"},
	})
	require.Len(t, routes, 3)
	assert.Equal(t, Route{Method: "GET", Path: "/api", Handler: "console.listView.func1"}, routes[0])
	assert.Equal(t, "GET", routes[1].Method)
	assert.Equal(t, "POST", routes[2].Method)

	table := Routes(routes)
	assert.Equal(t, []string{"Method", "Path", "Handler"}, table.Header)
	assert.Equal(t, []string{"POST", "/login", "console.(*Server).login-fm"}, table.Rows[2])
}
