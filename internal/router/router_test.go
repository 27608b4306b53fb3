package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/KoTeHok22/Locus-sub001/internal/config"
	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/handler"
	"github.com/KoTeHok22/Locus-sub001/internal/router"
	"github.com/KoTeHok22/Locus-sub001/internal/service"
	"github.com/KoTeHok22/Locus-sub001/mocks"
)

func routerJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "router-test-secret-32-characters!!",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "locus-test",
	}
}

// newTestRouter builds the full route tree over mock-backed services. None of
// the repository mocks carry expectations, so any request that gets past the
// middleware chain and into a service fails loudly.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authSvc := service.NewAuthService(new(mocks.MockUserRepo), routerJWTConfig())
	documentSvc := service.NewDocumentService(
		new(mocks.MockDocumentRepo), new(mocks.MockProjectRepo),
		new(mocks.MockRecognizer), new(mocks.MockObjectStorage),
		"locus-documents", 10, 3600)
	deliverySvc := service.NewDeliveryService(
		new(mocks.MockDeliveryRepo), new(mocks.MockDocumentRepo),
		new(mocks.MockProjectRepo), new(mocks.MockMaterialRepo), nil, "")
	projectSvc := service.NewProjectService(new(mocks.MockProjectRepo))

	return router.Setup(authSvc, nil,
		handler.NewAuthHandler(authSvc),
		handler.NewDocumentHandler(documentSvc),
		handler.NewDeliveryHandler(deliverySvc),
		handler.NewProjectHandler(projectSvc, deliverySvc),
		handler.NewHealthHandler(nil))
}

func tokenForRole(t *testing.T, role domain.UserRole) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("router-test-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		ID:           uuid.New(),
		Email:        string(role) + "@locus.dev",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	userRepo := new(mocks.MockUserRepo)
	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	issuer := service.NewAuthService(userRepo, routerJWTConfig())
	pair, err := issuer.Login(context.Background(), service.LoginInput{
		Email:    user.Email,
		Password: "router-test-pass",
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func doJSON(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_DeliveryCreate_ForemanOnly(t *testing.T) {
	r := newTestRouter(t)
	path := "/api/v1/projects/" + uuid.NewString() + "/deliveries"

	for _, role := range []domain.UserRole{domain.RoleInspector, domain.RoleManager} {
		w := doJSON(r, http.MethodPost, path, tokenForRole(t, role))
		assert.Equal(t, http.StatusForbidden, w.Code, "role %s must not confirm deliveries", role)
	}

	// The foreman passes the guard; the empty body then fails validation,
	// proving the request reached the handler.
	w := doJSON(r, http.MethodPost, path, tokenForRole(t, domain.RoleForeman))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_DocumentRecognize_ForemanOnly(t *testing.T) {
	r := newTestRouter(t)

	for _, role := range []domain.UserRole{domain.RoleInspector, domain.RoleManager} {
		w := doJSON(r, http.MethodPost, "/api/v1/documents/recognize", tokenForRole(t, role))
		assert.Equal(t, http.StatusForbidden, w.Code, "role %s must not submit scans", role)
	}

	w := doJSON(r, http.MethodPost, "/api/v1/documents/recognize", tokenForRole(t, domain.RoleForeman))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_DeliveryCreate_RequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/deliveries", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_DeliveryExport_ForemanForbidden(t *testing.T) {
	r := newTestRouter(t)
	path := "/api/v1/projects/" + uuid.NewString() + "/deliveries/export"

	w := doJSON(r, http.MethodGet, path, tokenForRole(t, domain.RoleForeman))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
