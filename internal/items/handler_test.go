package items_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Lelo88/items-api-golang/internal/httpx"
	"github.com/Lelo88/items-api-golang/internal/items"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	createFn func(ctx context.Context, in items.ItemRequest) (items.Item, error)
	listFn   func(ctx context.Context) ([]items.Item, error)
	getFn    func(ctx context.Context, id int64) (items.Item, error)
	updateFn func(ctx context.Context, id int64, in items.ItemRequest) (items.Item, error)
	deleteFn func(ctx context.Context, id int64) error

	createCalled bool
	createInput  items.ItemRequest

	listCalled bool

	getCalled bool
	getID     int64

	updateCalled bool
	updateID     int64
	updateInput  items.ItemRequest

	deleteCalled bool
	deleteID     int64
}

func (service *stubService) Create(ctx context.Context, in items.ItemRequest) (items.Item, error) {
	service.createCalled = true
	service.createInput = in
	if service.createFn != nil {
		return service.createFn(ctx, in)
	}
	return items.Item{}, nil
}

func (service *stubService) List(ctx context.Context) ([]items.Item, error) {
	service.listCalled = true
	if service.listFn != nil {
		return service.listFn(ctx)
	}
	return []items.Item{}, nil
}

func (service *stubService) Get(ctx context.Context, id int64) (items.Item, error) {
	service.getCalled = true
	service.getID = id
	if service.getFn != nil {
		return service.getFn(ctx, id)
	}
	return items.Item{}, nil
}

func (service *stubService) Update(ctx context.Context, id int64, in items.ItemRequest) (items.Item, error) {
	service.updateCalled = true
	service.updateID = id
	service.updateInput = in
	if service.updateFn != nil {
		return service.updateFn(ctx, id, in)
	}
	return items.Item{}, nil
}

func (service *stubService) Delete(ctx context.Context, id int64) error {
	service.deleteCalled = true
	service.deleteID = id
	if service.deleteFn != nil {
		return service.deleteFn(ctx, id)
	}
	return nil
}

func TestHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		description := "A thing"
		service := &stubService{
			createFn: func(ctx context.Context, in items.ItemRequest) (items.Item, error) {
				return items.Item{ID: 1, Name: "Widget", Description: &description, CreatedAt: createdAt, UpdatedAt: createdAt}, nil
			},
		}
		handler := items.NewHandler(service)

		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"  Widget ","description":"A thing"}`))
		rec := serve(items.ValidateBody(httpx.Handle(handler.Create)), req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.True(t, service.createCalled)
		require.Equal(t, "  Widget ", service.createInput.Name)
		require.Equal(t, "A thing", *service.createInput.Description)

		resp := decodeResponse(t, rec)
		require.True(t, resp.Success)
		require.Equal(t, items.MessageCreated, resp.Message)
		data := asMap(t, resp.Data)
		require.Equal(t, json.Number("1"), data["id"])
		require.Equal(t, "Widget", data["name"])
		require.Equal(t, "A thing", data["description"])
		require.Equal(t, "2024-01-02T03:04:05Z", data["created_at"])
	})

	t.Run("validation failure never reaches service", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{}`))
		rec := serve(items.ValidateBody(httpx.Handle(handler.Create)), req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, items.MessageEmptyBody, decodeResponse(t, rec).Message)
		require.False(t, service.createCalled)
	})

	t.Run("service error is internal", func(t *testing.T) {
		service := &stubService{
			createFn: func(ctx context.Context, in items.ItemRequest) (items.Item, error) {
				return items.Item{}, errors.New("duplicate key value violates unique constraint")
			},
		}
		handler := items.NewHandler(service)

		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"Phone"}`))
		rec := serve(items.ValidateBody(httpx.Handle(handler.Create)), req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeResponse(t, rec)
		require.False(t, resp.Success)
		require.Equal(t, httpx.MessageInternal, resp.Message)
		require.Nil(t, resp.Data)
	})

	t.Run("without validator", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"Phone"}`))
		rec := serve(httpx.Handle(handler.Create), req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.False(t, service.createCalled)
	})
}

func TestHandler_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &stubService{
			listFn: func(ctx context.Context) ([]items.Item, error) {
				return []items.Item{{ID: 2, Name: "Mouse"}, {ID: 1, Name: "Phone"}}, nil
			},
		}
		handler := items.NewHandler(service)

		rec := serve(httpx.Handle(handler.List), httptest.NewRequest(http.MethodGet, "/items", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, service.listCalled)

		resp := decodeResponse(t, rec)
		require.True(t, resp.Success)
		require.Equal(t, items.MessageListed, resp.Message)
		list := asSlice(t, resp.Data)
		require.Len(t, list, 2)
		require.Equal(t, "Mouse", asMap(t, list[0])["name"])
		require.Nil(t, asMap(t, list[0])["description"])
	})

	t.Run("empty list is success", func(t *testing.T) {
		handler := items.NewHandler(&stubService{})

		rec := serve(httpx.Handle(handler.List), httptest.NewRequest(http.MethodGet, "/items", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, asSlice(t, decodeResponse(t, rec).Data))
	})

	t.Run("service error", func(t *testing.T) {
		service := &stubService{
			listFn: func(ctx context.Context) ([]items.Item, error) {
				return nil, errors.New("db down")
			},
		}
		handler := items.NewHandler(service)

		rec := serve(httpx.Handle(handler.List), httptest.NewRequest(http.MethodGet, "/items", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, httpx.MessageInternal, decodeResponse(t, rec).Message)
	})
}

func TestHandler_Get(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/items/abc", nil), "id", "abc")
		rec := serve(items.ValidateID(httpx.Handle(handler.Get)), req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, items.MessageInvalidID, decodeResponse(t, rec).Message)
		require.False(t, service.getCalled)
	})

	t.Run("not found", func(t *testing.T) {
		service := &stubService{
			getFn: func(ctx context.Context, id int64) (items.Item, error) {
				return items.Item{}, items.ErrorNotFound
			},
		}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/items/999999", nil), "id", "999999")
		rec := serve(items.ValidateID(httpx.Handle(handler.Get)), req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeResponse(t, rec)
		require.False(t, resp.Success)
		require.Equal(t, items.MessageNotFound, resp.Message)
		require.Nil(t, resp.Data)
		require.Equal(t, int64(999999), service.getID)
	})

	t.Run("success", func(t *testing.T) {
		service := &stubService{
			getFn: func(ctx context.Context, id int64) (items.Item, error) {
				return items.Item{ID: id, Name: "Phone"}, nil
			},
		}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/items/7", nil), "id", "7")
		rec := serve(items.ValidateID(httpx.Handle(handler.Get)), req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, items.MessageRetrieved, resp.Message)
		require.Equal(t, json.Number("7"), asMap(t, resp.Data)["id"])
	})
}

func TestHandler_Update(t *testing.T) {
	t.Run("invalid id short-circuits before body", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/items/0", strings.NewReader(`{}`)), "id", "0")
		rec := serve(items.ValidateID(items.ValidateBody(httpx.Handle(handler.Update))), req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, items.MessageInvalidID, decodeResponse(t, rec).Message)
		require.False(t, service.updateCalled)
	})

	t.Run("blank name", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/items/3", strings.NewReader(`{"name":"   "}`)), "id", "3")
		rec := serve(items.ValidateID(items.ValidateBody(httpx.Handle(handler.Update))), req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, items.MessageNameRequired, decodeResponse(t, rec).Message)
		require.False(t, service.updateCalled)
	})

	t.Run("not found", func(t *testing.T) {
		service := &stubService{
			updateFn: func(ctx context.Context, id int64, in items.ItemRequest) (items.Item, error) {
				return items.Item{}, items.ErrorNotFound
			},
		}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/items/3", strings.NewReader(`{"name":"New"}`)), "id", "3")
		rec := serve(items.ValidateID(items.ValidateBody(httpx.Handle(handler.Update))), req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, items.MessageNotFound, decodeResponse(t, rec).Message)
	})

	t.Run("success", func(t *testing.T) {
		service := &stubService{
			updateFn: func(ctx context.Context, id int64, in items.ItemRequest) (items.Item, error) {
				return items.Item{ID: id, Name: in.Name}, nil
			},
		}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/items/3", strings.NewReader(`{"name":"New","description":null}`)), "id", "3")
		rec := serve(items.ValidateID(items.ValidateBody(httpx.Handle(handler.Update))), req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, service.updateCalled)
		require.Equal(t, int64(3), service.updateID)
		require.Equal(t, "New", service.updateInput.Name)
		require.Nil(t, service.updateInput.Description)

		resp := decodeResponse(t, rec)
		require.Equal(t, items.MessageUpdated, resp.Message)
		require.Equal(t, "New", asMap(t, resp.Data)["name"])
	})
}

func TestHandler_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		service := &stubService{
			deleteFn: func(ctx context.Context, id int64) error {
				return items.ErrorNotFound
			},
		}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/items/5", nil), "id", "5")
		rec := serve(items.ValidateID(httpx.Handle(handler.Delete)), req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, items.MessageNotFound, decodeResponse(t, rec).Message)
	})

	t.Run("infrastructure error", func(t *testing.T) {
		service := &stubService{
			deleteFn: func(ctx context.Context, id int64) error {
				return errors.New("connection reset")
			},
		}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/items/5", nil), "id", "5")
		rec := serve(items.ValidateID(httpx.Handle(handler.Delete)), req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotContains(t, rec.Body.String(), "connection reset")
	})

	t.Run("success", func(t *testing.T) {
		service := &stubService{}
		handler := items.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/items/5", nil), "id", "5")
		rec := serve(items.ValidateID(httpx.Handle(handler.Delete)), req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, service.deleteCalled)
		require.Equal(t, int64(5), service.deleteID)
		require.JSONEq(t, `{"success":true,"message":"Item deleted successfully","data":null}`, rec.Body.String())
	})
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) httpx.Response {
	t.Helper()

	var response httpx.Response
	decoder := json.NewDecoder(bytes.NewReader(recorder.Body.Bytes()))
	decoder.UseNumber()
	require.NoError(t, decoder.Decode(&response))
	return response
}

func asMap(t *testing.T, value any) map[string]any {
	t.Helper()

	out, ok := value.(map[string]any)
	require.True(t, ok, "expected map, got %T", value)
	return out
}

func asSlice(t *testing.T, value any) []any {
	t.Helper()

	out, ok := value.([]any)
	require.True(t, ok, "expected slice, got %T", value)
	return out
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}
