package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/stemsi/gdeval-backend/internal/model"
)

func bindCreate(t *testing.T, body string) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.CreateGDSessionRequest
	return Bind(c, &req)
}

func TestBindCreateGDSession(t *testing.T) {
	Setup()

	ok := `{"topic":"AI ethics","details":"d","group_name":"Alpha","group_number":"1",
		"date":"2026-03-01","participants":"A1, B2","evaluators":"C3"}`
	assert.Nil(t, bindCreate(t, ok))

	fields := bindCreate(t, `{"topic":"AI ethics","details":"d","group_name":"Alpha","group_number":"1",
		"date":"01-03-2026","participants":" , ,","evaluators":"C3"}`)
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields["participants"], "at least one roll number")

	fields = bindCreate(t, `{not json`)
	assert.Contains(t, fields, "detail")
}

func TestBindQueryUsesFormNames(t *testing.T) {
	Setup()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?min_score=11", nil)

	var f model.AnalyticsFilter
	fields := BindQuery(c, &f)
	assert.Contains(t, fields, "min_score")
}
