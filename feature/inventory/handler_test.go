package inventory

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"campusctl/core/controller"
	"campusctl/core/controller/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(client controller.Client) *fiber.App {
	app := fiber.New()
	handler := NewHandler(NewService(client, zap.NewNop()))
	handler.RegisterRoutes(app)
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHandleSites(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListAll", mock.Anything, controller.KindSite, mock.Anything).
		Return([]controller.Object{{"id": "s1", "name": "HQ"}}, nil)

	app := setupApp(client)
	resp, err := app.Test(httptest.NewRequest("GET", "/sites", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, float64(1), body["count"])
}

func TestHandleSites_ControllerDown(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListAll", mock.Anything, controller.KindSite, mock.Anything).
		Return(nil, assert.AnError)

	app := setupApp(client)
	resp, err := app.Test(httptest.NewRequest("GET", "/sites", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestHandleDevices_SiteFilter(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListAll", mock.Anything, controller.KindDevice, map[string]string{"siteId": "s1"}).
		Return([]controller.Object{{"id": "d1", "name": "SW-01"}}, nil)

	app := setupApp(client)
	resp, err := app.Test(httptest.NewRequest("GET", "/devices?site_id=s1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	client.AssertExpectations(t)
}

func TestHandleLookup(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListAll", mock.Anything, controller.KindSite, mock.Anything).
			Return([]controller.Object{{"id": "s1", "name": "HQ", "city": "Amiens"}}, nil)

		app := setupApp(client)
		resp, err := app.Test(httptest.NewRequest("GET", "/lookup/site?name=HQ&city=Amiens", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, true, body["found"])
		assert.Equal(t, "s1", body["id"])
	})

	t.Run("NotFound", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListAll", mock.Anything, controller.KindSite, mock.Anything).
			Return([]controller.Object{}, nil)

		app := setupApp(client)
		resp, err := app.Test(httptest.NewRequest("GET", "/lookup/site?name=Missing", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Ambiguous", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListAll", mock.Anything, controller.KindDevice, mock.Anything).
			Return([]controller.Object{
				{"id": "d1", "name": "SW", "model": "S5731"},
				{"id": "d2", "name": "SW", "model": "S5731"},
			}, nil)

		app := setupApp(client)
		resp, err := app.Test(httptest.NewRequest("GET", "/lookup/device?model=S5731", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, float64(2), body["matches"])
	})

	t.Run("UnknownKind", func(t *testing.T) {
		app := setupApp(new(mocks.Client))
		resp, err := app.Test(httptest.NewRequest("GET", "/lookup/rack?name=x", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("EmptySelector", func(t *testing.T) {
		app := setupApp(new(mocks.Client))
		resp, err := app.Test(httptest.NewRequest("GET", "/lookup/site", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
