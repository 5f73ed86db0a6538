package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/uiscraper/backend/internal/application/bookmark"
	"github.com/uiscraper/backend/internal/application/credits"
	"github.com/uiscraper/backend/internal/application/explorer"
	"github.com/uiscraper/backend/internal/application/extauth"
	"github.com/uiscraper/backend/internal/application/generation"
	"github.com/uiscraper/backend/internal/application/ports/mocks"
	"github.com/uiscraper/backend/internal/application/project"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
	"github.com/uiscraper/backend/internal/infrastructure/auth"
	apphttp "github.com/uiscraper/backend/internal/infrastructure/http"
	"github.com/uiscraper/backend/internal/infrastructure/http/handlers"
	"github.com/uiscraper/backend/internal/infrastructure/http/middleware"
	"github.com/uiscraper/backend/internal/infrastructure/persistence/memory"
)

var (
	alice   = domain.Identity{UserID: "user_alice", Email: "alice@example.com", Name: "Alice", Plan: domain.PlanFree}
	noEmail = domain.Identity{UserID: "user_bob", Name: "Bob", Plan: domain.PlanPro}
)

// stubSessions accepts "session-<userID>" for the identities it knows.
type stubSessions map[string]domain.Identity

func (s stubSessions) VerifySession(token string) (*domain.Identity, error) {
	id, ok := s[token]
	if !ok {
		return nil, domerrors.ErrUnauthenticated
	}
	return &id, nil
}

type apiFixture struct {
	handler  http.Handler
	store    *memory.Store
	tokens   *auth.ExtensionTokens
	enqueuer *mocks.MockTaskEnqueuer
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := zerolog.Nop()
	store := memory.NewStore()
	tokens := auth.NewExtensionTokens(auth.ExtensionTokenTTL)
	enqueuer := mocks.NewMockTaskEnqueuer(ctrl)

	usage := limitermemory.NewStore()
	webLedger := credits.NewLedger(usage, credits.WebAllotment(), credits.DefaultWindow)
	extLedger := credits.NewLedger(usage, credits.ExtensionAllotment(), credits.DefaultWindow)

	verify := extauth.NewVerifyExtensionToken(tokens, store.Plans())
	extAuth := middleware.NewExtensionAuth(verify, log)
	sessions := middleware.NewSessionAuth(stubSessions{"session-alice": alice, "session-noemail": noEmail})

	router := apphttp.NewRouter(apphttp.RouterConfig{
		ExtensionAuthHandler: handlers.NewExtensionAuthHandler(extauth.NewIssueExtensionToken(tokens, store.Plans()), verify, log),
		ExtensionHandler: handlers.NewExtensionHandler(
			extAuth,
			extLedger,
			generation.NewCreateGeneration(store.Projects(), store.Messages(), extLedger, enqueuer),
			bookmark.NewSaveBookmark(store.Bookmarks()),
			bookmark.NewListBookmarks(store.Bookmarks()),
			log,
		),
		ProjectsHandler: handlers.NewProjectsHandler(handlers.ProjectsHandlerDeps{
			Ledger:       webLedger,
			Generate:     generation.NewCreateGeneration(store.Projects(), store.Messages(), webLedger, enqueuer),
			ListProjects: project.NewListProjects(store.Projects()),
			GetProject:   project.NewGetProject(store.Projects()),
			Rename:       project.NewRenameProject(store.Projects()),
			Delete:       project.NewDeleteProject(store.Projects()),
			ListMessages: project.NewListMessages(store.Projects(), store.Messages()),
		}, log),
		FragmentsHandler: handlers.NewFragmentsHandler(explorer.NewFragmentExplorer(store.Messages()), log),
		RequireSession:   sessions.Handler,
		RequireExtension: extAuth.Handler,
		CORS:             middleware.CORS([]string{"https://app.uiscraper.dev", "chrome-extension://abc"}, nil, nil),
		Log:              log,
	})
	return &apiFixture{handler: router, store: store, tokens: tokens, enqueuer: enqueuer}
}

func (f *apiFixture) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) mint(t *testing.T, identity domain.Identity, at time.Time) string {
	t.Helper()
	tok, err := f.tokens.Mint(identity, at)
	require.NoError(t, err)
	return tok
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestExtensionUsage_ExpiredToken(t *testing.T) {
	f := newAPIFixture(t)
	token := f.mint(t, alice, time.Now().Add(-25*time.Hour))

	rec := f.do(t, http.MethodGet, "/api/extension/usage", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Token expired", body["error"])
}

func TestExtensionUsage_TokenErrors(t *testing.T) {
	f := newAPIFixture(t)
	tests := []struct {
		name    string
		bearer  string
		wantErr string
	}{
		{"missing", "", "Unauthorized"},
		{"garbage", "not-base64!!", "Invalid token"},
		{"missing email", f.mint(t, domain.Identity{UserID: "u1"}, time.Now()), "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/api/extension/usage", tt.bearer, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.wantErr, decode(t, rec)["error"])
		})
	}
}

func TestExtensionUsage_FreshToken(t *testing.T) {
	f := newAPIFixture(t)
	token := f.mint(t, alice, time.Now())

	rec := f.do(t, http.MethodGet, "/api/extension/usage", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	usage := body["usage"].(map[string]interface{})
	assert.Equal(t, float64(credits.FreePointsExtension), usage["remainingPoints"])
	assert.Equal(t, float64(credits.FreePointsExtension), usage["totalPoints"])
	assert.Equal(t, float64(0), usage["usedPoints"])
	assert.Equal(t, "Free", usage["planName"])
}

func TestExtensionGenerate_OutOfCredits(t *testing.T) {
	f := newAPIFixture(t)
	token := f.mint(t, alice, time.Now())
	f.enqueuer.EXPECT().EnqueueRunGeneration(gomock.Any(), gomock.Any()).Return(nil).Times(credits.FreePointsExtension)

	for i := 0; i < credits.FreePointsExtension; i++ {
		rec := f.do(t, http.MethodPost, "/api/extension/generate", "", map[string]string{"value": "hero section", "token": token})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	projectsBefore := f.store.ProjectCount()

	rec := f.do(t, http.MethodPost, "/api/extension/generate", token, map[string]string{"value": "one more"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "You have run out of credits", body["error"])
	assert.Equal(t, "rate_limited", body["code"])
	assert.Equal(t, projectsBefore, f.store.ProjectCount())
	usage := body["usage"].(map[string]interface{})
	assert.Equal(t, float64(0), usage["remainingPoints"])
}

func TestExtensionGenerate_Success(t *testing.T) {
	f := newAPIFixture(t)
	token := f.mint(t, alice, time.Now())
	f.enqueuer.EXPECT().EnqueueRunGeneration(gomock.Any(), gomock.Any()).Return(nil)

	rec := f.do(t, http.MethodPost, "/api/extension/generate", "", map[string]string{"value": "a login form", "token": token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["projectId"])
	assert.Equal(t, 1, f.store.ProjectCount())
	assert.Equal(t, 1, f.store.MessageCount())
}

func TestExtensionGenerate_DispatchFailure(t *testing.T) {
	f := newAPIFixture(t)
	token := f.mint(t, alice, time.Now())
	f.enqueuer.EXPECT().EnqueueRunGeneration(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	rec := f.do(t, http.MethodPost, "/api/extension/generate", token, map[string]string{"value": "a login form"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis down")
}

func TestVerifyExtensionToken(t *testing.T) {
	f := newAPIFixture(t)
	tests := []struct {
		name     string
		token    string
		wantCode int
		wantErr  string
	}{
		{"missing", "", http.StatusBadRequest, "Token is required"},
		{"malformed", "%%%", http.StatusBadRequest, "Invalid token format"},
		{"missing fields", f.mint(t, domain.Identity{Email: "x@example.com"}, time.Now()), http.StatusUnauthorized, "Invalid token"},
		{"expired", f.mint(t, alice, time.Now().Add(-48*time.Hour)), http.StatusUnauthorized, "Token expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/auth/verify-extension-token", "", map[string]string{"token": tt.token})
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decode(t, rec)["error"])
		})
	}

	rec := f.do(t, http.MethodPost, "/api/auth/verify-extension-token", "", map[string]string{"token": f.mint(t, alice, time.Now())})
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "user_alice", user["id"])
	assert.Equal(t, "alice@example.com", user["email"])
}

func TestIssueExtensionToken(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/auth/extension", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/auth/extension", "session-alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	identity, err := f.tokens.Verify(token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, identity.UserID)

	plan, err := f.store.Plans().GetPlan(context.Background(), alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, plan)
}

func TestIssueExtensionToken_SessionWithoutEmail(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/auth/extension", "session-noemail", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "unauthorized", body["code"])
	assert.Nil(t, body["token"])
}

func TestCORS_Preflight(t *testing.T) {
	f := newAPIFixture(t)
	paths := []string{"/api/extension/usage", "/api/extension/generate", "/api/extension/bookmark", "/api/auth/extension", "/api/auth/verify-extension-token"}
	for _, p := range paths {
		req := httptest.NewRequest(http.MethodOptions, p, nil)
		req.Header.Set("Origin", "chrome-extension://abc")
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code, p)
		assert.Equal(t, "chrome-extension://abc", rec.Header().Get("Access-Control-Allow-Origin"), p)
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"), p)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/extension/usage", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestExtensionBookmarks(t *testing.T) {
	f := newAPIFixture(t)
	token := f.mint(t, alice, time.Now())

	rec := f.do(t, http.MethodPost, "/api/extension/bookmark", token, map[string]string{"url": "https://stripe.com/pricing"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode(t, rec)["bookmark"].(map[string]interface{})
	assert.Equal(t, "https://stripe.com/pricing", created["title"])

	rec = f.do(t, http.MethodPost, "/api/extension/bookmark", token, map[string]string{"action": "update", "id": created["id"].(string), "title": "Stripe pricing"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/extension/bookmark", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["bookmarks"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "Stripe pricing", list[0].(map[string]interface{})["title"])

	rec = f.do(t, http.MethodPost, "/api/extension/bookmark", token, map[string]string{"action": "delete", "url": "https://stripe.com/pricing"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["deleted"])

	rec = f.do(t, http.MethodPost, "/api/extension/bookmark", token, map[string]string{"action": "archive", "url": "https://stripe.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjects_WebFlow(t *testing.T) {
	f := newAPIFixture(t)
	f.enqueuer.EXPECT().EnqueueRunGeneration(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	rec := f.do(t, http.MethodPost, "/api/projects", "session-alice", map[string]string{"value": "a navbar"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	projectID := decode(t, rec)["projectId"].(string)

	rec = f.do(t, http.MethodPost, "/api/projects/"+projectID+"/messages", "session-alice", map[string]string{"value": "make it dark"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, projectID, decode(t, rec)["projectId"])

	rec = f.do(t, http.MethodGet, "/api/projects/"+projectID+"/messages", "session-alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msgs := decode(t, rec)["messages"].([]interface{})
	assert.Len(t, msgs, 2)

	rec = f.do(t, http.MethodGet, "/api/usage", "session-alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	usage := decode(t, rec)["usage"].(map[string]interface{})
	assert.Equal(t, float64(credits.FreePointsWeb-2), usage["remainingPoints"])

	rec = f.do(t, http.MethodPatch, "/api/projects/"+projectID, "session-alice", map[string]string{"name": "Dark navbar"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Dark navbar", decode(t, rec)["project"].(map[string]interface{})["name"])

	rec = f.do(t, http.MethodGet, "/api/projects", "session-alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["projects"].([]interface{}), 1)

	rec = f.do(t, http.MethodDelete, "/api/projects/"+projectID, "session-alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/projects/"+projectID, "session-alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjects_RequireSession(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/api/projects", "session-bob", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/projects/not-a-uuid", "session-alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFragments_Views(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()
	p := &domain.Project{ID: domain.NewProjectID(mustUUID(t)), UserID: alice.UserID, Name: "p", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, f.store.Projects().Create(ctx, p))
	msg := &domain.Message{ID: mustUUID(t), ProjectID: p.ID, Role: domain.RoleAssistant, Type: domain.MessageResult, Content: "done", CreatedAt: time.Now()}
	frag := &domain.Fragment{
		ID:        mustUUID(t),
		MessageID: msg.ID,
		Title:     "Button",
		Files: map[string]string{
			"app/page.tsx":          "export default function Page(){return null}",
			"components/Button.tsx": "import { cn } from \"@/lib/utils\";\nexport function Button(){return null}",
		},
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.store.Messages().CreateWithFragment(ctx, msg, frag))

	rec := f.do(t, http.MethodGet, "/api/fragments/"+frag.ID.String()+"/tree", "session-alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[["app","page.tsx"],["components","Button.tsx"]]`, string(mustJSON(t, decode(t, rec)["tree"])))

	rec = f.do(t, http.MethodGet, "/api/fragments/"+frag.ID.String()+"/component", "session-alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "components/Button.tsx", body["path"])
	assert.NotContains(t, body["code"], "@/lib/utils")
}
