package billing

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillIDParamParsing(t *testing.T) {
	app := fiber.New()
	app.Get("/bills/:id", GetBillHandler())

	// digit prefixes with trailing garbage must be rejected, not parsed as
	// their prefix
	for _, bad := range []string{"12abc", "abc", "0", "-1", "1.5"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/bills/"+bad, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "id %q", bad)
	}
}

func TestBillListQueryParsing(t *testing.T) {
	app := fiber.New()
	app.Get("/bills", ListBillsHandler())

	for _, target := range []string{
		"/bills?customer_id=7junk",
		"/bills?customer_id=0",
		"/bills?payment_status=Paid",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, target)
	}
}
