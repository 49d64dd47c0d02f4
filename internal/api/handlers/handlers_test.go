package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

func TestRespondValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	sentinel := errors.New("svc: invalid input")

	ok := RespondValidationError(w, domain.NewFieldError(sentinel, "date", "is required"))

	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "date", body.Field)
	assert.Equal(t, "date is required", body.Message)

	assert.False(t, RespondValidationError(httptest.NewRecorder(), sentinel))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "x", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.ErrorIs(t, DecodeJSON(r, &dst), ErrEmptyBody)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}{"name":"y"}`))
	assert.Error(t, DecodeJSON(r, &dst))
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	type dto struct {
		HallID int64  `json:"hallId" validate:"required,gt=0"`
		Email  string `json:"email" validate:"omitempty,email"`
	}

	err := Validate(&dto{})
	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "hallId", fieldErr.Field)
	assert.Equal(t, "is required", fieldErr.Message)

	err = Validate(&dto{HallID: 1, Email: "nope"})
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "email", fieldErr.Field)

	assert.NoError(t, Validate(&dto{HallID: 1}))
}

func TestPathID(t *testing.T) {
	var got int64
	var gotErr error
	r := mux.NewRouter()
	r.HandleFunc("/halls/{id}", func(w http.ResponseWriter, req *http.Request) {
		got, gotErr = PathID(req, "id")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/halls/42", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, int64(42), got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/halls/-1", nil))
	assert.ErrorIs(t, gotErr, ErrInvalidParam)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/halls/abc", nil))
	assert.ErrorIs(t, gotErr, ErrInvalidParam)
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=2&limit=5&hallId=7&includeInactive=true&date=2025-12-24", nil)

	page, err := QueryPage(r)
	require.NoError(t, err)
	assert.Equal(t, domain.Page{Number: 2, Limit: 5}, page)

	hallID, err := QueryInt64(r, "hallId")
	require.NoError(t, err)
	require.NotNil(t, hallID)
	assert.Equal(t, int64(7), *hallID)

	missing, err := QueryInt64(r, "clientId")
	require.NoError(t, err)
	assert.Nil(t, missing)

	flag, err := QueryBool(r, "includeInactive")
	require.NoError(t, err)
	assert.True(t, flag)

	date, err := QueryDate(r, "date")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-24", date.Format(domain.DateFormat))

	bad := httptest.NewRequest(http.MethodGet, "/?page=0&date=24/12/2025", nil)
	_, err = QueryPage(bad)
	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "page", fieldErr.Field)

	_, err = QueryDate(bad, "date")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "date", fieldErr.Field)
}

func TestPrincipalContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := PrincipalFromContext(r.Context())
	assert.False(t, ok)

	ctx := WithPrincipal(r.Context(), domain.Principal{UserID: 3, Role: domain.RoleClient})
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), p.UserID)
}
