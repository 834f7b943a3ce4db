package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/erp/sale-ebay/internal/application/integration"
	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannelService struct {
	created     *integration.CreateEbayChannelRequest
	channel     *integration.ChannelResponse
	exceptions  []integration.ExceptionResponse
	gotResolved *bool
	listCalled  bool
	resolved    *integration.ExceptionResponse
	err         error
}

func (f *fakeChannelService) CreateEbayChannel(_ context.Context, req integration.CreateEbayChannelRequest) (*integration.ChannelResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &req
	return &integration.ChannelResponse{ID: uuid.New(), Name: req.Name, Code: req.Code, Source: "ebay", Active: true, SiteID: req.SiteID}, nil
}

func (f *fakeChannelService) GetChannel(_ context.Context, id uuid.UUID) (*integration.ChannelResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.channel, nil
}

func (f *fakeChannelService) ListExceptions(_ context.Context, _ uuid.UUID, resolved *bool) ([]integration.ExceptionResponse, error) {
	f.listCalled = true
	f.gotResolved = resolved
	if f.err != nil {
		return nil, f.err
	}
	return f.exceptions, nil
}

func (f *fakeChannelService) ResolveException(_ context.Context, id uuid.UUID) (*integration.ExceptionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resolved, nil
}

func setupChannelRouter(svc ChannelAdminService) *gin.Engine {
	r := gin.New()
	NewChannelHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestChannelHandler_CreateChannel(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		svc := &fakeChannelService{}
		r := setupChannelRouter(svc)

		body := `{"name":"eBay US","code":"EBAY-US","app_id":"app","dev_id":"dev","cert_id":"cert","auth_token":"tok","site_id":0}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/channels", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, svc.created)
		assert.Equal(t, "EBAY-US", svc.created.Code)
		assert.Equal(t, "tok", svc.created.AuthToken)
		assert.NotContains(t, w.Body.String(), "auth_token")
	})

	t.Run("missing credentials", func(t *testing.T) {
		svc := &fakeChannelService{}
		r := setupChannelRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/channels", strings.NewReader(`{"name":"eBay US","code":"EBAY-US"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.created)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"app_id", "dev_id", "cert_id", "auth_token"}, fields)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := setupChannelRouter(&fakeChannelService{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/channels", strings.NewReader(`{"name":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	})
}

func TestChannelHandler_GetChannel(t *testing.T) {
	id := uuid.New()
	svc := &fakeChannelService{channel: &integration.ChannelResponse{ID: id, Name: "eBay US", Code: "EBAY-US", Source: "ebay"}}
	r := setupChannelRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/channels/"+id.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data integration.ChannelResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, id, env.Data.ID)

	notFound := setupChannelRouter(&fakeChannelService{err: channel.ErrChannelNotFound})
	w = httptest.NewRecorder()
	notFound.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/channels/"+id.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChannelHandler_ListExceptions(t *testing.T) {
	channelID := uuid.New()
	exc := integration.ExceptionResponse{
		ID:        uuid.New(),
		ChannelID: channelID,
		Origin:    "sale.sale," + uuid.NewString(),
		Log:       "Total mismatch",
		CreatedAt: time.Now().UTC(),
	}

	tests := []struct {
		name         string
		query        string
		wantStatus   int
		wantResolved *bool
		wantCalled   bool
	}{
		{name: "no filter", query: "", wantStatus: http.StatusOK, wantCalled: true},
		{name: "unresolved only", query: "?resolved=false", wantStatus: http.StatusOK, wantResolved: boolPtr(false), wantCalled: true},
		{name: "resolved only", query: "?resolved=true", wantStatus: http.StatusOK, wantResolved: boolPtr(true), wantCalled: true},
		{name: "bad filter", query: "?resolved=maybe", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeChannelService{exceptions: []integration.ExceptionResponse{exc}}
			r := setupChannelRouter(svc)

			w := httptest.NewRecorder()
			url := fmt.Sprintf("/api/v1/channels/%s/exceptions%s", channelID, tt.query)
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, svc.listCalled)
			if !tt.wantCalled {
				return
			}
			assert.Equal(t, tt.wantResolved, svc.gotResolved)

			var env struct {
				Data []integration.ExceptionResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			require.Len(t, env.Data, 1)
			assert.Equal(t, "Total mismatch", env.Data[0].Log)
		})
	}
}

func TestChannelHandler_ResolveException(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC()

	t.Run("resolved", func(t *testing.T) {
		svc := &fakeChannelService{resolved: &integration.ExceptionResponse{ID: id, IsResolved: true, ResolvedAt: &now}}
		r := setupChannelRouter(svc)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/channel-exceptions/"+id.String()+"/resolve", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var env struct {
			Data integration.ExceptionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Data.IsResolved)
	})

	t.Run("unknown exception", func(t *testing.T) {
		r := setupChannelRouter(&fakeChannelService{err: channel.ErrExceptionNotFound})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/channel-exceptions/"+id.String()+"/resolve", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unexpected failure", func(t *testing.T) {
		r := setupChannelRouter(&fakeChannelService{err: errors.New("db down")})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/channel-exceptions/"+id.String()+"/resolve", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db down")
	})
}

func boolPtr(b bool) *bool {
	return &b
}
