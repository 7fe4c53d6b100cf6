package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yboost/yboost/internal/broadcast"
	"github.com/yboost/yboost/internal/config"
	"github.com/yboost/yboost/pkg/catalog"
	"github.com/yboost/yboost/pkg/database/models"
	"github.com/yboost/yboost/pkg/database/repository"
	"github.com/yboost/yboost/pkg/logging"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeCollection is an in-memory CollectionStore. Setting err makes every
// operation fail, simulating an unreachable database.
type fakeCollection struct {
	mu      sync.Mutex
	records []models.OwnedSkin
	err     error
}

func (f *fakeCollection) AddMany(userID uuid.UUID, awards []repository.Award) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	now := time.Now()
	for _, a := range awards {
		// Newest first, matching the repository's list order.
		f.records = append([]models.OwnedSkin{{
			ID:        uuid.New(),
			UserID:    userID,
			SkinID:    a.SkinID,
			SkinName:  a.SkinName,
			Rarity:    a.Rarity,
			CreatedAt: now,
		}}, f.records...)
	}
	return nil
}

func (f *fakeCollection) ListByUser(userID uuid.UUID) ([]models.OwnedSkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.OwnedSkin
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCollection) Remove(userID uuid.UUID, skinID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var kept []models.OwnedSkin
	var removed int64
	for _, r := range f.records {
		if r.UserID == userID && r.SkinID == skinID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return removed, nil
}

func (f *fakeCollection) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*models.User)}
}

func (f *fakeUsers) Create(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	f.users[user.Pseudo] = user
	return nil
}

func (f *fakeUsers) GetByPseudo(pseudo string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[pseudo]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) delete(pseudo string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, pseudo)
}

func (f *fakeUsers) PseudoTaken(pseudo string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[pseudo]
	return ok, nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Skin{
		{ID: 266000, Name: "Classic Aatrox", Rarity: catalog.RarityStandard, SplashPath: "/lol-game-data/assets/v1/champion-splashes/Characters/Aatrox/skins/base.jpg"},
		{ID: 266001, Name: "Justicar Aatrox", Rarity: catalog.RarityEpic, SplashPath: "/lol-game-data/assets/v1/champion-splashes/Characters/Aatrox/skins/skin01.jpg"},
		{ID: 103015, Name: "Star Guardian Ahri", Rarity: catalog.RarityLegendary, SplashPath: "/lol-game-data/assets/v1/champion-splashes/Characters/Ahri/skins/skin15.jpg"},
	})
}

type testEnv struct {
	srv        *Server
	router     *gin.Engine
	users      *fakeUsers
	collection *fakeCollection
	hub        *broadcast.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newFakeUsers()
	col := &fakeCollection{}
	hub := broadcast.NewHub()
	srv := New(Options{
		LoggerFactory: logging.NewLoggerFactory("error"),
		Users:         users,
		Collection:    col,
		Hub:           hub,
		SessionSecret: "test-secret",
		Boosters:      []config.Booster{config.DefaultBooster},
		Catalog:       testCatalog(),
	})
	return &testEnv{srv: srv, router: srv.Router(), users: users, collection: col, hub: hub}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates an account and returns its session cookies.
func (e *testEnv) register(t *testing.T, pseudo string) []*http.Cookie {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/register", gin.H{"pseudo": pseudo, "password": "hunter22"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestUnauthenticatedCollectionAccess(t *testing.T) {
	e := newTestEnv(t)

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/user/skins", nil},
		{http.MethodPost, "/api/user/skins", gin.H{"skins": []gin.H{{"skinId": 1, "skinName": "x"}}}},
		{http.MethodDelete, "/api/user/skins/266000", nil},
		{http.MethodPost, "/api/stress-test", nil},
	} {
		w := e.do(t, tc.method, tc.path, tc.body, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
	// Rejected requests never touch the store.
	assert.Equal(t, 0, e.collection.count())
}

func TestRegisterLoginSessionFlow(t *testing.T) {
	e := newTestEnv(t)
	cookies := e.register(t, "testuser")

	// Session reflects the registered identity.
	w := e.do(t, http.MethodGet, "/api/session", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["authenticated"])

	// Duplicate pseudo is rejected.
	w = e.do(t, http.MethodPost, "/api/register", gin.H{"pseudo": "testuser", "password": "hunter22"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong password and unknown pseudo get the same answer.
	w = e.do(t, http.MethodPost, "/api/login", gin.H{"pseudo": "testuser", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = e.do(t, http.MethodPost, "/api/login", gin.H{"pseudo": "nobody", "password": "hunter22"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct credentials issue a fresh session.
	w = e.do(t, http.MethodPost, "/api/login", gin.H{"pseudo": "testuser", "password": "hunter22"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Result().Cookies())

	// Without a cookie the session endpoint is anonymous, not an error.
	w = e.do(t, http.MethodGet, "/api/session", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["authenticated"])
}

func TestSessionForDeletedAccountIsAnonymous(t *testing.T) {
	e := newTestEnv(t)
	cookies := e.register(t, "ghost")

	// The cookie is still valid JWT, but the account is gone.
	e.users.delete("ghost")

	w := e.do(t, http.MethodGet, "/api/session", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["authenticated"])
}

func TestRegisterValidation(t *testing.T) {
	e := newTestEnv(t)
	for name, body := range map[string]gin.H{
		"short pseudo":   {"pseudo": "ab", "password": "hunter22"},
		"long pseudo":    {"pseudo": "abcdefghijklmnopqrstu", "password": "hunter22"},
		"short password": {"pseudo": "testuser", "password": "abc"},
		"missing fields": {},
	} {
		w := e.do(t, http.MethodPost, "/api/register", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestAddListRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	cookies := e.register(t, "collector")

	w := e.do(t, http.MethodPost, "/api/user/skins", gin.H{"skins": []gin.H{
		{"skinId": 266001, "skinName": "Justicar Aatrox", "rarity": "kEpic"},
		{"skinId": 266001, "skinName": "Justicar Aatrox", "rarity": "kEpic"},
		{"skinId": 103015, "skinName": "Star Guardian Ahri", "rarity": "kLegendary"},
	}}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodGet, "/api/user/skins", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["storeAvailable"])
	skins := body["skins"].([]any)
	// Duplicates are stored as separate records.
	require.Len(t, skins, 3)
}

func TestAddSkinsValidation(t *testing.T) {
	e := newTestEnv(t)
	cookies := e.register(t, "collector")

	// Empty award list.
	w := e.do(t, http.MethodPost, "/api/user/skins", gin.H{"skins": []gin.H{}}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unnamed award.
	w = e.do(t, http.MethodPost, "/api/user/skins", gin.H{"skins": []gin.H{{"skinId": 1}}}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, e.collection.count())

	// Missing rarity defaults to the standard tag.
	w = e.do(t, http.MethodPost, "/api/user/skins", gin.H{"skins": []gin.H{{"skinId": 1, "skinName": "x"}}}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodGet, "/api/user/skins", nil, cookies)
	body := decode(t, w)
	first := body["skins"].([]any)[0].(map[string]any)
	assert.Equal(t, string(catalog.RarityStandard), first["rarity"])
}

func TestRemoveSkinDeletesAllCopies(t *testing.T) {
	e := newTestEnv(t)
	cookies := e.register(t, "collector")

	e.do(t, http.MethodPost, "/api/user/skins", gin.H{"skins": []gin.H{
		{"skinId": 266001, "skinName": "Justicar Aatrox", "rarity": "kEpic"},
		{"skinId": 266001, "skinName": "Justicar Aatrox", "rarity": "kEpic"},
		{"skinId": 103015, "skinName": "Star Guardian Ahri", "rarity": "kLegendary"},
	}}, cookies)

	w := e.do(t, http.MethodDelete, "/api/user/skins/266001", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["removed"])
	assert.Equal(t, 1, e.collection.count())

	// Removing an unowned skin succeeds with zero copies removed.
	w = e.do(t, http.MethodDelete, "/api/user/skins/999999", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["removed"])

	w = e.do(t, http.MethodDelete, "/api/user/skins/not-a-number", nil, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollectionsAreIsolatedPerUser(t *testing.T) {
	e := newTestEnv(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bobby")

	e.do(t, http.MethodPost, "/api/user/skins", gin.H{"skins": []gin.H{
		{"skinId": 266001, "skinName": "Justicar Aatrox", "rarity": "kEpic"},
	}}, alice)

	w := e.do(t, http.MethodGet, "/api/user/skins", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["skins"])
}

func TestListDegradesWhenStoreUnavailable(t *testing.T) {
	e := newTestEnv(t)
	cookies := e.register(t, "collector")

	e.collection.err = errors.New("connection refused")

	w := e.do(t, http.MethodGet, "/api/user/skins", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["storeAvailable"])
	assert.Empty(t, body["skins"])

	// Writes fail loudly instead.
	w = e.do(t, http.MethodPost, "/api/user/skins", gin.H{"skins": []gin.H{{"skinId": 1, "skinName": "x"}}}, cookies)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMutationsPublishCollectionChanged(t *testing.T) {
	e := newTestEnv(t)
	cookies := e.register(t, "collector")

	// The session subject is the user id; resolve it through the store.
	u, err := e.users.GetByPseudo("collector")
	require.NoError(t, err)
	events, cancel := e.hub.Subscribe(u.ID.String())
	defer cancel()

	e.do(t, http.MethodPost, "/api/user/skins", gin.H{"skins": []gin.H{
		{"skinId": 266001, "skinName": "Justicar Aatrox", "rarity": "kEpic"},
	}}, cookies)

	select {
	case ev := <-events:
		assert.Equal(t, broadcast.EventCollectionChanged, ev.Type)
		assert.Equal(t, 1, ev.Count)
	case <-time.After(time.Second):
		t.Fatal("no event after add")
	}

	e.do(t, http.MethodDelete, "/api/user/skins/266001", nil, cookies)
	select {
	case ev := <-events:
		assert.Equal(t, broadcast.EventCollectionChanged, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("no event after remove")
	}

	// A remove that touches nothing publishes nothing.
	e.do(t, http.MethodDelete, "/api/user/skins/266001", nil, cookies)
	select {
	case ev := <-events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStressTestAwardsBurst(t *testing.T) {
	e := newTestEnv(t)
	cookies := e.register(t, "collector")

	w := e.do(t, http.MethodPost, "/api/stress-test", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(stressTestCount), decode(t, w)["count"])
	assert.Equal(t, stressTestCount, e.collection.count())
}

func TestCatalogEndpoint(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/api/skins", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]catalog.Skin
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 3)
	assert.Equal(t, "Justicar Aatrox", out["266001"].Name)
	assert.Equal(t, catalog.RarityEpic, out["266001"].Rarity)
}

func TestBoostersEndpoint(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/api/boosters", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	packs := body["boosters"].([]any)
	require.Len(t, packs, 1)
	first := packs[0].(map[string]any)
	assert.Equal(t, config.DefaultBooster.Name, first["Name"])
}

func TestHealthReflectsStoreState(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	// With a failing ping the endpoint reports degraded.
	pingErr := errors.New("no route to host")
	e.srv.pingDB = func() error { return pingErr }
	w = e.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, false, body["storeAvailable"])
}
