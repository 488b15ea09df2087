package helpers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yusuf/schoolregistry/internal/pkg/helpers"
)

func paramsFor(t *testing.T, query string) (int64, int64) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", "/students/paginated"+query, nil)
	return helpers.ParsePaginationParams(ctx)
}

func TestParsePaginationParams(t *testing.T) {
	page, limit := paramsFor(t, "?page=2&limit=25")
	assert.Equal(t, int64(2), page)
	assert.Equal(t, int64(25), limit)
}

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit := paramsFor(t, "")
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(10), limit)
}

func TestParsePaginationParamsInvalidValues(t *testing.T) {
	page, limit := paramsFor(t, "?page=zero&limit=-5")
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(10), limit)
}

func TestParsePaginationParamsCapsLimit(t *testing.T) {
	_, limit := paramsFor(t, "?limit=1000")
	assert.Equal(t, int64(100), limit)
}
