package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/electronics_store/internal/domain"
	"github.com/Skotchmaster/electronics_store/internal/events"
	"github.com/Skotchmaster/electronics_store/internal/service"
	"github.com/Skotchmaster/electronics_store/internal/storage"
	"github.com/Skotchmaster/electronics_store/internal/testutil"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/pkg/hash"
	"github.com/Skotchmaster/electronics_store/pkg/tokens"
)

var testSecret = []byte("router-test-secret")

type testServer struct {
	e      *echo.Echo
	users  *service.UserService
	issuer *tokens.Issuer
	seed   func(t *testing.T, email string, roles ...domain.Role) (id, token string)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	r := testutil.NewRepo(t)
	rec := &events.Recorder{}
	images := &storage.ImageStore{Root: t.TempDir()}
	issuer := &tokens.Issuer{Secret: testSecret, Name: "test", TTL: time.Minute}

	users := &service.UserService{Repo: r, Images: images, Events: rec}
	products := &service.ProductService{Repo: r, Images: images, Events: rec}
	refresh := &service.RefreshService{Repo: r, TTL: time.Hour}

	e := echo.New()
	Register(e, &Deps{
		Auth:       &AuthHTTP{Svc: &service.AuthService{Repo: r, Users: users, Refresh: refresh, Tokens: issuer}},
		Users:      &UserHTTP{Svc: users},
		Categories: &CategoryHTTP{Svc: &service.CategoryService{Repo: r, Images: images, Events: rec, Products: products}, Products: products},
		Products:   &ProductHTTP{Svc: products},
		Carts:      &CartHTTP{Svc: &service.CartService{Repo: r, Events: rec}},
		Orders:     &OrderHTTP{Svc: &service.OrderService{Repo: r, Events: rec}},
		JWTSecret:  testSecret,
	})

	ts := &testServer{e: e, users: users, issuer: issuer}
	ts.seed = func(t *testing.T, email string, roles ...domain.Role) (string, string) {
		t.Helper()
		ctx := context.Background()
		u, err := users.Create(ctx, transport.CreateUserRequest{FullName: "Seeded User", Email: email, Password: "password", About: "seeded"})
		require.NoError(t, err)
		if len(roles) > 0 {
			for _, role := range roles {
				rr, err := r.EnsureRole(ctx, string(role))
				require.NoError(t, err)
				require.NoError(t, r.DB.Model(u).Association("Roles").Append(rr))
			}
		}
		names := []string{string(domain.RoleUser)}
		for _, role := range roles {
			names = append(names, string(role))
		}
		tok, _, err := issuer.SignAccess(u.Email, u.ID, names)
		require.NoError(t, err)
		return u.ID, tok
	}
	return ts
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCreateUser(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/users", "", map[string]any{
		"fullName": "Alice Smith",
		"email":    "alice@example.com",
		"password": "secret",
		"gender":   "female",
		"about":    "hi",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.NotEmpty(t, body["userId"])
	assert.NotContains(t, body, "password")

	rec = ts.do(http.MethodPost, "/users", "", map[string]any{
		"fullName": "Alice Again",
		"email":    "alice@example.com",
		"password": "secret",
		"about":    "dup",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decode[transport.APIResponse](t, rec).Status)
}

func TestCreateUser_ValidationMap(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/users", "", map[string]any{"fullName": "Al", "email": "nope"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fields := decode[map[string]string](t, rec)
	assert.Contains(t, fields, "fullName")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "about")
}

func TestAuthorizationPolicy(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	userID, userTok := ts.seed(t, "user@example.com")
	otherID, _ := ts.seed(t, "other@example.com")
	_, adminTok := ts.seed(t, "admin@example.com", domain.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"list users anonymous", http.MethodGet, "/users", "", http.StatusUnauthorized},
		{"list users as user", http.MethodGet, "/users", userTok, http.StatusForbidden},
		{"list users as admin", http.MethodGet, "/users", adminTok, http.StatusOK},
		{"get user is public", http.MethodGet, "/users/" + userID, "", http.StatusOK},
		{"products are public", http.MethodGet, "/products", "", http.StatusOK},
		{"create product as user", http.MethodPost, "/products", userTok, http.StatusForbidden},
		{"own cart", http.MethodGet, "/carts/user/" + userID, userTok, http.StatusNotFound},
		{"someone else's cart", http.MethodGet, "/carts/user/" + otherID, userTok, http.StatusForbidden},
		{"admin reads any cart", http.MethodGet, "/carts/user/" + otherID, adminTok, http.StatusNotFound},
		{"cart anonymous", http.MethodGet, "/carts/user/" + userID, "", http.StatusUnauthorized},
		{"all orders as user", http.MethodGet, "/orders", userTok, http.StatusForbidden},
		{"own orders", http.MethodGet, "/orders/user/" + userID, userTok, http.StatusOK},
		{"invalid token is anonymous", http.MethodGet, "/orders/user/" + userID, "garbage", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec := ts.do(http.MethodGet, "/users", "", nil)
	env := decode[transport.APIResponse](t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Status)
}

func TestCheckoutFlow(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	userID, userTok := ts.seed(t, "buyer@example.com")
	_, adminTok := ts.seed(t, "admin@example.com", domain.RoleAdmin)

	rec := ts.do(http.MethodPost, "/products", adminTok, map[string]any{
		"title":           "Headphones",
		"price":           150,
		"discountedPrice": 100,
		"quantity":        10,
		"live":            true,
		"stock":           true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productID := decode[map[string]any](t, rec)["productId"].(string)

	rec = ts.do(http.MethodPost, "/carts/user/"+userID, userTok, map[string]any{"productId": productID, "quantity": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decode[transport.APIResponse](t, rec).Status)

	rec = ts.do(http.MethodPost, "/carts/user/"+userID, userTok, map[string]any{"productId": productID, "quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := decode[struct {
		Items []struct {
			Quantity   int   `json:"quantity"`
			TotalPrice int64 `json:"totalPrice"`
		} `json:"items"`
	}](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(300), cart.Items[0].TotalPrice)

	rec = ts.do(http.MethodPost, "/orders", userTok, map[string]any{
		"userId":         userID,
		"billingName":    "Buyer",
		"billingPhone":   "123456",
		"billingAddress": "Somewhere 1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[map[string]any](t, rec)
	assert.Equal(t, float64(300), order["orderAmount"])
	assert.Equal(t, "PENDING", order["orderStatus"])
	assert.Equal(t, "NOT_PAID", order["paymentStatus"])

	rec = ts.do(http.MethodGet, "/carts/user/"+userID, userTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[struct {
		Items []any `json:"items"`
	}](t, rec).Items)

	rec = ts.do(http.MethodPost, "/orders", userTok, map[string]any{
		"userId":         userID,
		"billingName":    "Buyer",
		"billingPhone":   "123456",
		"billingAddress": "Somewhere 1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty cart")

	rec = ts.do(http.MethodGet, "/orders?pageSize=10", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[transport.Page[map[string]any]](t, rec)
	assert.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, 10, page.PageSize)
	assert.True(t, page.LastPage)
}

func TestRemoveCartItem_Ownership(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	aliceID, aliceTok := ts.seed(t, "alice@example.com")
	_, bobTok := ts.seed(t, "bob@example.com")
	_, adminTok := ts.seed(t, "admin@example.com", domain.RoleAdmin)

	addLine := func(title string) uint {
		t.Helper()
		rec := ts.do(http.MethodPost, "/products", adminTok, map[string]any{"title": title, "price": 20, "discountedPrice": 10})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		productID := decode[map[string]any](t, rec)["productId"].(string)

		rec = ts.do(http.MethodPost, "/carts/user/"+aliceID, aliceTok, map[string]any{"productId": productID, "quantity": 1})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		items := decode[struct {
			Items []struct {
				ID uint `json:"cartItemId"`
			} `json:"items"`
		}](t, rec).Items
		return items[len(items)-1].ID
	}
	first := addLine("Cable")
	second := addLine("Adapter")

	rec := ts.do(http.MethodDelete, fmt.Sprintf("/carts/cart-item/%d", first), bobTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, "/carts/user/"+aliceID, aliceTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[struct {
		Items []any `json:"items"`
	}](t, rec).Items, 2)

	rec = ts.do(http.MethodDelete, fmt.Sprintf("/carts/cart-item/%d", first), aliceTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodDelete, fmt.Sprintf("/carts/cart-item/%d", second), adminTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodDelete, fmt.Sprintf("/carts/cart-item/%d", second), bobTok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrder_ForAnotherUser(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	_, userTok := ts.seed(t, "user@example.com")
	otherID, _ := ts.seed(t, "other@example.com")

	rec := ts.do(http.MethodPost, "/orders", userTok, map[string]any{
		"userId":         otherID,
		"billingName":    "X",
		"billingPhone":   "1",
		"billingAddress": "Y",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginAndRegenerate(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	userID, _ := ts.seed(t, "login@example.com")

	rec := ts.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "login@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "login@example.com", "password": "password"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[transport.JwtResponse](t, rec)
	assert.NotEmpty(t, login.JwtToken)
	assert.NotEmpty(t, login.RefreshToken.Token)

	claims, err := tokens.AccessClaimsFromToken(login.JwtToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	rec = ts.do(http.MethodPost, "/auth/regenerate-jwt-token", "", map[string]any{"refreshToken": login.RefreshToken.Token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	again := decode[transport.JwtResponse](t, rec)
	assert.Equal(t, login.RefreshToken.Token, again.RefreshToken.Token)

	rec = ts.do(http.MethodGet, "/orders/user/"+userID, again.JwtToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPost, "/auth/regenerate-jwt-token", "", map[string]any{"refreshToken": "unknown"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPost, "/auth/login-with-google", "", map[string]any{"idToken": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserImage(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	userID, userTok := ts.seed(t, "pic@example.com")

	upload := func(filename string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("userImage", filename)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("png-bytes"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/users/image/"+userID, &buf)
		req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+userTok)
		rec := httptest.NewRecorder()
		ts.e.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("avatar.exe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/users/image/"+userID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = upload("avatar.png")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[transport.ImageResponse](t, rec)
	assert.True(t, strings.HasSuffix(resp.ImageName, ".png"))
	assert.True(t, resp.Success)
	assert.Equal(t, "CREATED", resp.Status)

	rec = ts.do(http.MethodGet, "/users/image/"+userID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestNotFoundEnvelope(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/products/does-not-exist", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decode[transport.APIResponse](t, rec)
	assert.Equal(t, "NOT_FOUND", env.Status)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "does-not-exist")
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/health/ready", "", nil).Code)
}

func TestPasswordNeverStoredPlain(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	id, _ := ts.seed(t, "hash@example.com")

	u, err := ts.users.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, hash.CheckPassword(u.Password, "password"))
}
