package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fathima-sithara/poseidon-service/internal/errs"
	"github.com/fathima-sithara/poseidon-service/internal/middleware"
	"github.com/fathima-sithara/poseidon-service/internal/models"
	"github.com/fathima-sithara/poseidon-service/internal/repository"
	"github.com/fathima-sithara/poseidon-service/internal/services"
	"github.com/fathima-sithara/poseidon-service/internal/utils"
)

// stubPassengers overrides only what a test needs; other calls panic on the nil interface.
type stubPassengers struct {
	PassengerService
	all      []models.Passenger
	err      error
	rate     float64
	count    int64
	gotClass int
	created  *models.Passenger
}

func (s *stubPassengers) GetAll(context.Context) ([]models.Passenger, error) { return s.all, s.err }

func (s *stubPassengers) GetByID(_ context.Context, id string) (*models.Passenger, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Passenger{Name: "Braund, Mr. Owen Harris"}, nil
}

func (s *stubPassengers) Create(_ context.Context, p *models.Passenger) error {
	p.ID = primitive.NewObjectID()
	s.created = p
	return s.err
}

func (s *stubPassengers) SurvivalRate(context.Context) (float64, error) { return s.rate, s.err }

func (s *stubPassengers) SurvivalRateByClass(_ context.Context, n int) (float64, error) {
	s.gotClass = n
	return s.rate, s.err
}

func (s *stubPassengers) SurvivalRateByAgeRange(_ context.Context, lo, hi float64) (float64, error) {
	if lo > hi {
		return 0, services.ErrInvalidRange
	}
	return s.rate, nil
}

func (s *stubPassengers) CountMen(context.Context) (int64, error) { return s.count, s.err }

type stubUsers struct {
	loginErr  error
	token     string
	deleted   string
	updateErr error
}

func (s *stubUsers) Register(_ context.Context, req models.CreateUserRequest) (*models.User, error) {
	return &models.User{ID: primitive.NewObjectID(), Username: req.Username, Email: req.Email, Password: "hash", Role: models.RoleUser}, nil
}

func (s *stubUsers) Login(context.Context, models.LoginRequest) (string, error) {
	return s.token, s.loginErr
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return &models.User{ID: oid, Username: "bob", Email: "bob@x.com", Password: "hash", Role: models.RoleUser}, nil
}

func (s *stubUsers) Update(context.Context, models.Role, string, models.UpdateUserRequest) error {
	return s.updateErr
}

func (s *stubUsers) Delete(_ context.Context, id string) error {
	s.deleted = id
	return nil
}

// as authenticates every request with the given identity.
func as(id string, role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, id)
		c.Locals(middleware.LocalUserRole, role)
		return c.Next()
	}
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func passengerApp(svc *stubPassengers) *fiber.App {
	app := fiber.New()
	h := NewPassengerHandler(svc, utils.NewValidator(), zap.NewNop())
	s := NewStatisticsHandler(svc, zap.NewNop())
	app.Get("/passenger/all", h.GetAll)
	app.Get("/passenger/survival-rate", h.GetSurvivalRate)
	app.Get("/passenger/:id", h.GetByID)
	app.Post("/passenger", h.Create)
	app.Get("/statistics/men", s.Men)
	app.Get("/statistics/survival-rate/class/:classNumber", s.SurvivalRateByClass)
	app.Get("/statistics/survival-rate/age-range", s.SurvivalRateByAgeRange)
	return app
}

func names(n int) []models.Passenger {
	out := make([]models.Passenger, n)
	for i := range out {
		out[i].Name = string(rune('a' + i))
	}
	return out
}

func TestGetAllPaginates(t *testing.T) {
	app := passengerApp(&stubPassengers{all: names(5)})

	resp, body := do(t, app, http.MethodGet, "/passenger/all?page=2&pageSize=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []models.Passenger
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Name)
	assert.Equal(t, "d", got[1].Name)
}

func TestGetAllPastTheEndIsEmptyArray(t *testing.T) {
	app := passengerApp(&stubPassengers{all: names(3)})

	resp, body := do(t, app, http.MethodGet, "/passenger/all?page=9&pageSize=2", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestGetAllRejectsBadPagination(t *testing.T) {
	app := passengerApp(&stubPassengers{all: names(3)})

	for _, q := range []string{"page=0", "pageSize=0", "pageSize=101", "page=abc"} {
		resp, _ := do(t, app, http.MethodGet, "/passenger/all?"+q, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{services.ErrInvalidRange, http.StatusBadRequest},
		{services.ErrForbidden, http.StatusForbidden},
		{errs.ErrUnauthorized, http.StatusUnauthorized},
		{errs.ErrRateLimited, http.StatusTooManyRequests},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		app := passengerApp(&stubPassengers{err: tc.err})
		resp, body := do(t, app, http.MethodGet, "/passenger/"+primitive.NewObjectID().Hex(), "")
		assert.Equal(t, tc.want, resp.StatusCode, tc.err.Error())
		if tc.want == http.StatusInternalServerError {
			assert.JSONEq(t, `{"error":"Internal Server Error"}`, string(body))
		}
	}
}

func TestSurvivalRateIsBareNumber(t *testing.T) {
	app := passengerApp(&stubPassengers{rate: 0.5})

	resp, body := do(t, app, http.MethodGet, "/passenger/survival-rate", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0.5", string(body))
}

func TestCreatePassenger(t *testing.T) {
	svc := &stubPassengers{}
	app := passengerApp(svc)

	resp, _ := do(t, app, http.MethodPost, "/passenger",
		`{"survived":true,"pclass":1,"name":"Cumings, Mrs. John Bradley","sex":"female","age":38,"fare":71.28}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, svc.created)
	assert.Equal(t, "/api/passenger/"+svc.created.ID.Hex(), resp.Header.Get("Location"))
	assert.True(t, bool(svc.created.Survived))
}

func TestCreatePassengerValidation(t *testing.T) {
	svc := &stubPassengers{}
	app := passengerApp(svc)

	resp, body := do(t, app, http.MethodPost, "/passenger", `{"pclass":4,"name":"","sex":"other","fare":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "details")
	assert.Nil(t, svc.created)

	resp, _ = do(t, app, http.MethodPost, "/passenger", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatistics(t *testing.T) {
	svc := &stubPassengers{count: 577, rate: 0.63}
	app := passengerApp(svc)

	_, body := do(t, app, http.MethodGet, "/statistics/men", "")
	assert.JSONEq(t, `{"numberOfMen":577}`, string(body))

	_, body = do(t, app, http.MethodGet, "/statistics/survival-rate/class/1", "")
	assert.JSONEq(t, `{"classNumber":1,"survivalRate":0.63}`, string(body))
	assert.Equal(t, 1, svc.gotClass)

	resp, _ := do(t, app, http.MethodGet, "/statistics/survival-rate/class/first", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/statistics/survival-rate/age-range?minAge=40&maxAge=10", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/statistics/survival-rate/age-range?minAge=10", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func userApp(svc *stubUsers, id string, role models.Role) *fiber.App {
	app := fiber.New()
	h := NewUserHandler(svc, utils.NewValidator(), zap.NewNop())
	app.Post("/user/register", h.Register)
	app.Post("/user/login", h.Login)
	app.Get("/user/:id", as(id, role), h.GetByID)
	app.Put("/user/:id", as(id, role), h.Update)
	app.Delete("/user/:id", as(id, role), h.Delete)
	return app
}

func TestRegisterHidesPassword(t *testing.T) {
	app := userApp(&stubUsers{}, "", "")

	resp, body := do(t, app, http.MethodPost, "/user/register",
		`{"username":"alice","email":"alice@x.com","password":"p@ssw0rd!"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "p@ssw0rd!")
	assert.Contains(t, string(body), `"role":"User"`)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	app := userApp(&stubUsers{}, "", "")

	resp, _ := do(t, app, http.MethodPost, "/user/register",
		`{"username":"alice","email":"alice@x.com","password":"p@ssw0rd!","role":"Root"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app := userApp(&stubUsers{token: "signed"}, "", "")
	resp, body := do(t, app, http.MethodPost, "/user/login", `{"email":"t1@x.com","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"token":"signed"}`, string(body))

	app = userApp(&stubUsers{loginErr: services.ErrInvalidCredentials}, "", "")
	resp, body = do(t, app, http.MethodPost, "/user/login", `{"email":"t1@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "Invalid credentials. Please use your email and password.")
}

func TestUserAccessIsSelfOrAdmin(t *testing.T) {
	self := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()

	resp, _ := do(t, userApp(&stubUsers{}, self, models.RoleUser), http.MethodGet, "/user/"+self, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, userApp(&stubUsers{}, self, models.RoleUser), http.MethodGet, "/user/"+other, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, userApp(&stubUsers{}, self, models.RoleAdmin), http.MethodGet, "/user/"+other, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	svc := &stubUsers{}
	resp, _ = do(t, userApp(svc, self, models.RoleUser), http.MethodDelete, "/user/"+other, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, svc.deleted)

	resp, _ = do(t, userApp(svc, self, models.RoleUser), http.MethodDelete, "/user/"+self, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, self, svc.deleted)
}

func TestUpdateUser(t *testing.T) {
	self := primitive.NewObjectID().Hex()

	resp, _ := do(t, userApp(&stubUsers{}, self, models.RoleUser), http.MethodPut, "/user/"+self, `{"username":"renamed"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, userApp(&stubUsers{updateErr: services.ErrForbidden}, self, models.RoleUser), http.MethodPut, "/user/"+self, `{"role":"Admin"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, userApp(&stubUsers{}, self, models.RoleUser), http.MethodPut, "/user/"+self, `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("no reachable servers") }

	app := fiber.New()
	h := NewHealthHandler(map[string]Check{"mongo": ok}, zap.NewNop())
	app.Get("/live", h.Live)
	app.Get("/ready", h.Ready)

	resp, body := do(t, app, http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"Healthy"}`, string(body))

	resp, _ = do(t, app, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	app = fiber.New()
	h = NewHealthHandler(map[string]Check{"mongo": ok, "redis": down}, zap.NewNop())
	app.Get("/ready", h.Ready)
	resp, body = do(t, app, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "no reachable servers")
}
