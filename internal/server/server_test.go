package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/franciscosanchezn/taist-api/internal/auth"
	"github.com/franciscosanchezn/taist-api/internal/config"
	"github.com/franciscosanchezn/taist-api/internal/database"
	"github.com/franciscosanchezn/taist-api/internal/integrations"
	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/franciscosanchezn/taist-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testAPIKey = "test-api-key"
	testSecret = "test-secret"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingSMS struct {
	mu       sync.Mutex
	messages []string
}

func (s *recordingSMS) Send(_ context.Context, _ string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return nil
}

func (s *recordingSMS) lastCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return ""
	}
	last := s.messages[len(s.messages)-1]
	return last[len(last)-integrations.CodeLength:]
}

type stubAssistant struct{}

func (stubAssistant) SuggestDescription(_ context.Context, title string) (string, error) {
	return "Freshly made " + title, nil
}

func (stubAssistant) EnhanceDescription(_ context.Context, _, description string) (string, error) {
	return strings.ToUpper(description), nil
}

func (stubAssistant) AnalyzeMetadata(_ context.Context, _, _ string, opts integrations.MetadataOptions) (integrations.MenuMetadata, error) {
	return integrations.MenuMetadata{
		CategoryIDs: []int{opts.Categories[0].ID},
		Allergens:   []int{opts.Allergens[0].ID},
		Appliances:  []int{opts.Appliances[0].ID},
	}, nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	events *integrations.RecordingPublisher
	sms    *recordingSMS
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	seed, err := database.LoadSeed("")
	require.NoError(t, err)
	require.NoError(t, database.Seed(db, seed))
	return db
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Environment:    "test",
		PublicURL:      "http://taist.test",
		JWTSecret:      testSecret,
		TokenTTLHours:  24,
		APIKey:         testAPIKey,
		LoginPerMinute: 600,
		LoginBurst:     100,
		UploadDir:      t.TempDir(),
	}
}

func newTestEnv(t *testing.T, mutate func(*Deps)) *testEnv {
	env := &testEnv{
		db:     setupTestDB(t),
		cfg:    testConfig(t),
		events: &integrations.RecordingPublisher{},
		sms:    &recordingSMS{},
	}
	deps := Deps{DB: env.db, Config: env.cfg, SMS: env.sms, Events: env.events}
	if mutate != nil {
		mutate(&deps)
	}
	env.router = New(deps)
	return env
}

// createUser inserts a user and returns it with a login token.
func (e *testEnv) createUser(t *testing.T, email string, userType int, role string) (*models.User, string) {
	user := &models.User{Email: email, UserType: userType, Role: role, FirstName: "Test"}
	require.NoError(t, user.SetPassword("secret"))
	require.NoError(t, e.db.Create(user).Error)
	token, err := auth.NewTokenIssuer(testSecret, time.Hour).Issue(user)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) do(method, path, token string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("apikey", testAPIKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success int             `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func customerForm(email string) url.Values {
	return url.Values{
		"email":     {email},
		"password":  {"secret"},
		"user_type": {"1"},
		"allergens": {"3,1,3"},
	}
}

func chefForm(email string) url.Values {
	return url.Values{
		"email":      {email},
		"password":   {"secret"},
		"user_type":  {"2"},
		"first_name": {"Rosa"},
		"last_name":  {"Diaz"},
		"phone":      {"(555) 123-4567"},
		"zip":        {"10001"},
		"birthday":   {"631152000"},
		"address":    {"1 Main St"},
		"city":       {"New York"},
		"state":      {"NY"},
	}
}

func multipartRequest(t *testing.T, path string, form url.Values, photo []byte) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range form {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	if photo != nil {
		part, err := mw.CreateFormFile("photo", "me.jpg")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("apikey", testAPIKey)
	return req
}

func validMenuForm() url.Values {
	return url.Values{
		"title":          {"Tamales"},
		"description":    {"Pork tamales in corn husks"},
		"category_ids":   {"1"},
		"allergens":      {"7,1"},
		"appliances":     {"1"},
		"estimated_time": {"120"},
		"serving_size":   {"4"},
		"price":          {"$12.50"},
		"customizations": {`[{"name":"Extra salsa","upcharge_price":"1.5"}]`},
		"is_live":        {"1"},
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"taist-api"`)
}

func TestAPIRequiresKey(t *testing.T) {
	env := newTestEnv(t, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/get_allergens", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, decode(t, w, nil).Success)
}

func TestReferenceTables(t *testing.T) {
	env := newTestEnv(t, nil)

	var allergens []models.Allergen
	w := env.do(http.MethodGet, "/api/get_allergens", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode(t, w, &allergens).Success)
	assert.NotEmpty(t, allergens)

	var appliances []models.Appliance
	w = env.do(http.MethodGet, "/api/get_appliances", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &appliances)
	assert.NotEmpty(t, appliances)

	w = env.do(http.MethodGet, "/api/get_zipcodes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var categories []models.Category
	w = env.do(http.MethodGet, "/api/get_categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &categories)
	assert.Len(t, categories, 10)
}

func TestRegisterCustomerAndLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	var user models.User
	w := env.do(http.MethodPost, "/api/register", "", customerForm("Ana@Example.com"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &user)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, models.UserTypeCustomer, user.UserType)
	assert.Equal(t, "1,3", user.Allergens)
	assert.Equal(t, 0, user.IsPending)

	events := env.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, integrations.EventUserRegistered, events[0].Type)

	w = env.do(http.MethodPost, "/api/register", "", customerForm("ana@example.com"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, models.ErrUserExists, decode(t, w, nil).Error)

	w = env.do(http.MethodPost, "/api/login", "", url.Values{"email": {"ana@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decode(t, w, nil).Message)

	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	w = env.do(http.MethodPost, "/api/login", "", url.Values{"email": {"ana@example.com"}, "password": {"secret"}})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, user.ID, login.User.ID)

	w = env.do(http.MethodGet, "/api/get_users", login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{"unknown user type", url.Values{"email": {"a@b.co"}, "password": {"secret"}, "user_type": {"3"}}, validation.MsgInvalidUserType},
		{"bad email", url.Values{"email": {"nope"}, "password": {"secret"}, "user_type": {"1"}}, validation.MsgInvalidEmail},
		{"short password", url.Values{"email": {"a@b.co"}, "password": {"abc"}, "user_type": {"1"}}, validation.MsgShortPassword},
		{"customer bad zip", url.Values{"email": {"a@b.co"}, "password": {"secret"}, "user_type": {"1"}, "zip": {"12"}}, validation.MsgInvalidZip},
		{"chef without phone", url.Values{"email": {"a@b.co"}, "password": {"secret"}, "user_type": {"2"}}, validation.MsgInvalidPhone},
		{"chef without photo", chefForm("chef@example.com"), validation.MsgMissingPhoto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/register", "", tt.form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode(t, w, nil)
			assert.Equal(t, models.ErrValidationFailed, resp.Error)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestRegisterChefWithPhoto(t *testing.T) {
	env := newTestEnv(t, nil)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, multipartRequest(t, "/api/register", chefForm("chef@example.com"), []byte("jpeg")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user models.User
	decode(t, w, &user)
	assert.Equal(t, models.UserTypeChef, user.UserType)
	assert.Equal(t, 1, user.IsPending)
	assert.True(t, strings.HasPrefix(user.Photo, "http://taist.test/uploads/"), user.Photo)

	photo := httptest.NewRecorder()
	env.router.ServeHTTP(photo, httptest.NewRequest(http.MethodGet, strings.TrimPrefix(user.Photo, "http://taist.test"), nil))
	assert.Equal(t, http.StatusOK, photo.Code)
	assert.Equal(t, "jpeg", photo.Body.String())
}

func TestVerifyPhone(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodPost, "/api/verify_phone", "", url.Values{"phone": {"12"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, validation.MsgInvalidPhone, decode(t, w, nil).Message)

	w = env.do(http.MethodPost, "/api/verify_phone", "", url.Values{"phone": {"(555) 123-4567"}})
	require.Equal(t, http.StatusOK, w.Code)
	code := env.sms.lastCode()
	require.Len(t, code, integrations.CodeLength)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	w = env.do(http.MethodPost, "/api/verify_phone", "", url.Values{"phone": {"555-123-4567"}, "code": {wrong}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrInvalidCode, decode(t, w, nil).Error)

	w = env.do(http.MethodPost, "/api/verify_phone", "", url.Values{"phone": {"555-123-4567"}, "code": {code}})
	assert.Equal(t, http.StatusOK, w.Code)

	// a code works once
	w = env.do(http.MethodPost, "/api/verify_phone", "", url.Values{"phone": {"555-123-4567"}, "code": {code}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Config.LoginPerMinute = 1
		d.Config.LoginBurst = 2
	})

	form := url.Values{"email": {"nobody@example.com"}, "password": {"secret"}}
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/login", "", form).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/login", "", form).Code)
	assert.Equal(t, http.StatusTooManyRequests, env.do(http.MethodPost, "/api/login", "", form).Code)
}

func TestMenuLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	chef, chefToken := env.createUser(t, "chef@example.com", models.UserTypeChef, models.RoleChef)
	_, otherToken := env.createUser(t, "other@example.com", models.UserTypeChef, models.RoleChef)
	_, customerToken := env.createUser(t, "cust@example.com", models.UserTypeCustomer, models.RoleCustomer)

	w := env.do(http.MethodPost, "/api/create_menu", customerToken, validMenuForm())
	assert.Equal(t, http.StatusForbidden, w.Code)

	var menu models.Menu
	w = env.do(http.MethodPost, "/api/create_menu", chefToken, validMenuForm())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &menu)
	assert.Equal(t, chef.ID, menu.UserID)
	assert.Equal(t, 12.5, menu.Price)
	assert.Equal(t, "1,7", menu.Allergens)
	assert.Equal(t, 120, menu.EstimatedTime)
	assert.Equal(t, 1, menu.IsLive)
	require.Len(t, menu.Customizations, 1)
	assert.Equal(t, "Extra salsa", menu.Customizations[0].Name)
	assert.Equal(t, 1.5, menu.Customizations[0].UpchargePrice)

	update := validMenuForm()
	update.Set("title", "Green tamales")
	update.Set("customizations", "[]")
	update.Set("is_live", "0")
	path := "/api/update_menu/" + jsonID(menu.ID)

	w = env.do(http.MethodPost, path, otherToken, update)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.ErrMenuForbidden, decode(t, w, nil).Error)

	w = env.do(http.MethodPost, path, chefToken, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Menu
	decode(t, w, &updated)
	assert.Equal(t, "Green tamales", updated.Title)
	assert.Empty(t, updated.Customizations)
	assert.Equal(t, 0, updated.IsLive)

	var menus []models.Menu
	w = env.do(http.MethodGet, "/api/get_chef_menus/"+jsonID(chef.ID), customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &menus)
	require.Len(t, menus, 1)
	assert.Equal(t, "Green tamales", menus[0].Title)

	var profile struct {
		ID        uint  `json:"id"`
		MenuCount int64 `json:"menu_count"`
	}
	w = env.do(http.MethodGet, "/api/get_chef_profile/"+jsonID(chef.ID), customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &profile)
	assert.Equal(t, chef.ID, profile.ID)
	assert.Equal(t, int64(1), profile.MenuCount)

	var types []string
	for _, e := range env.events.Events() {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{integrations.EventMenuCreated, integrations.EventMenuUpdated}, types)

	w = env.do(http.MethodDelete, "/api/delete_menu/"+jsonID(menu.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(http.MethodDelete, "/api/delete_menu/"+jsonID(menu.ID), chefToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodDelete, "/api/delete_menu/"+jsonID(menu.ID), chefToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, models.ErrMenuNotFound, decode(t, w, nil).Error)
}

func TestCreateMenuValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.createUser(t, "chef@example.com", models.UserTypeChef, models.RoleChef)

	tests := []struct {
		name    string
		field   string
		value   string
		message string
	}{
		{"missing title", "title", " ", validation.MsgMissingTitle},
		{"missing description", "description", "", validation.MsgMissingDescription},
		{"no category", "category_ids", "", validation.MsgMissingCategory},
		{"zero price", "price", "0.00", validation.MsgPriceNotPositive},
		{"sub-cent price", "price", "0.004", validation.MsgPriceNotPositive},
		{"unparseable price", "price", "abc", validation.MsgInvalidPrice},
		{"serving size too big", "serving_size", "11", validation.MsgServingSizeRange},
		{"unnamed customization", "customizations", `[{"name":" ","upcharge_price":"1"}]`, validation.MsgMissingCustomName},
		{"negative upcharge", "customizations", `[{"name":"Salsa","upcharge_price":"-1"}]`, validation.MsgInvalidUpcharge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validMenuForm()
			form.Set(tt.field, tt.value)
			w := env.do(http.MethodPost, "/api/create_menu", token, form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, decode(t, w, nil).Message)
		})
	}
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t, nil)
	_, chefToken := env.createUser(t, "chef@example.com", models.UserTypeChef, models.RoleChef)
	_, otherToken := env.createUser(t, "other@example.com", models.UserTypeChef, models.RoleChef)

	w := env.do(http.MethodPost, "/api/create_category", chefToken, url.Values{"name": {" "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, validation.MsgMissingNewCategory, decode(t, w, nil).Message)

	var category models.Category
	w = env.do(http.MethodPost, "/api/create_category", chefToken, url.Values{"name": {"Peruvian"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &category)
	assert.Equal(t, models.CategoryPending, category.Status)

	w = env.do(http.MethodPost, "/api/create_category", otherToken, url.Values{"name": {"peruvian"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	count := func(token string) int {
		var items []models.Category
		decode(t, env.do(http.MethodGet, "/api/get_categories", token, nil), &items)
		return len(items)
	}
	assert.Equal(t, 11, count(chefToken))
	assert.Equal(t, 10, count(otherToken))
	assert.Equal(t, 10, count(""))

	path := "/api/delete_category/" + jsonID(category.ID)
	w = env.do(http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(http.MethodDelete, "/api/delete_category/1", chefToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(http.MethodDelete, path, chefToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodDelete, path, chefToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChefProfileRejectsCustomers(t *testing.T) {
	env := newTestEnv(t, nil)
	customer, token := env.createUser(t, "cust@example.com", models.UserTypeCustomer, models.RoleCustomer)

	w := env.do(http.MethodGet, "/api/get_chef_profile/"+jsonID(customer.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(http.MethodGet, "/api/get_chef_profile/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentMethodAndFCMToken(t *testing.T) {
	env := newTestEnv(t, nil)
	customer, token := env.createUser(t, "cust@example.com", models.UserTypeCustomer, models.RoleCustomer)

	w := env.do(http.MethodGet, "/api/get_payment_method", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":1,"data":null}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/update_fcm_token", token, url.Values{"fcm_token": {""}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(http.MethodPost, "/api/update_fcm_token", token, url.Values{"fcm_token": {"device-1"}})
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, env.db.First(&stored, customer.ID).Error)
	assert.Equal(t, "device-1", stored.FCMToken)

	w = env.do(http.MethodGet, "/api/get_payment_method", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAssistantDisabled(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.createUser(t, "chef@example.com", models.UserTypeChef, models.RoleChef)

	w := env.do(http.MethodPost, "/api/GenerateMenuDescriptionAPI", token, url.Values{"title": {"Tamales"}})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 0, decode(t, w, nil).Success)
}

func TestAssistantRoutes(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) { d.Assistant = stubAssistant{} })
	_, token := env.createUser(t, "chef@example.com", models.UserTypeChef, models.RoleChef)

	var out struct {
		Description string `json:"description"`
	}
	w := env.do(http.MethodPost, "/api/GenerateMenuDescriptionAPI", token, url.Values{"title": {"Tamales"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &out)
	assert.Equal(t, "Freshly made Tamales", out.Description)

	w = env.do(http.MethodPost, "/api/EnhanceMenuDescriptionAPI", token, url.Values{"title": {"Tamales"}, "description": {"good"}})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &out)
	assert.Equal(t, "GOOD", out.Description)

	w = env.do(http.MethodPost, "/api/EnhanceMenuDescriptionAPI", token, url.Values{"title": {"Tamales"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var meta integrations.MenuMetadata
	w = env.do(http.MethodPost, "/api/AnalyzeMenuMetadataAPI", token, url.Values{"title": {"Tamales"}, "description": {"Pork"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &meta)
	assert.Equal(t, []int{1}, meta.CategoryIDs)
	assert.Equal(t, []int{1}, meta.Allergens)
	assert.Equal(t, []int{1}, meta.Appliances)
}

func TestAdminClientsAndTokenEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	_, adminToken := env.createUser(t, "admin@example.com", models.UserTypeCustomer, models.RoleAdmin)
	_, chefToken := env.createUser(t, "chef@example.com", models.UserTypeChef, models.RoleChef)

	w := env.do(http.MethodPost, "/api/admin/clients", chefToken, url.Values{"name": {"partner"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var created struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	}
	w = env.do(http.MethodPost, "/api/admin/clients", adminToken, url.Values{"name": {"partner"}, "scopes": {"read"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &created)
	require.NotEmpty(t, created.ClientSecret)

	var listed []map[string]any
	decode(t, env.do(http.MethodGet, "/api/admin/clients", adminToken, nil), &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ClientID, listed[0]["client_id"])

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {created.ClientID},
		"client_secret": {created.ClientSecret},
	}
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	tw := httptest.NewRecorder()
	env.router.ServeHTTP(tw, req)
	require.Equal(t, http.StatusOK, tw.Code, tw.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(tw.Body.Bytes(), &token))
	w = env.do(http.MethodGet, "/api/get_users", token.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodDelete, "/api/admin/clients/"+created.ClientID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodDelete, "/api/admin/clients/"+created.ClientID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func jsonID(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
