package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"autoclient/internal/handlers"
	"autoclient/internal/models"
	"autoclient/internal/services"
)

type stubAuthService struct {
	loginResult  *services.LoginResult
	loginErr     error
	verifyResult *services.VerifyResult
	verifyErr    error

	gotUsername string
	gotCookie   string
}

func (s *stubAuthService) Register(req *models.RegisterRequest) (*models.Workshop, error) {
	return &models.Workshop{ID: 1, WorkshopName: req.WorkshopName, Username: req.Username}, nil
}

func (s *stubAuthService) Login(username, password, deviceCookie string) (*services.LoginResult, error) {
	s.gotUsername = username
	s.gotCookie = deviceCookie
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) VerifyOtp(otpToken, code, userAgent, ipAddress string) (*services.VerifyResult, error) {
	return s.verifyResult, s.verifyErr
}

func (s *stubAuthService) Me(workshopID int64) (*models.Workshop, error) {
	return &models.Workshop{ID: workshopID}, nil
}

func (s *stubAuthService) ListDevices(workshopID int64) ([]*models.TrustedDevice, error) {
	return nil, nil
}

func (s *stubAuthService) RevokeDevice(workshopID, deviceID int64) (bool, error) {
	return false, nil
}

func (s *stubAuthService) HashPassword(password string) (string, error) {
	return "hash", nil
}

func newAuthRouter(stub *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewAuthHandler(stub)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/verify-otp", h.VerifyOtp)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "device_token", Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginReturnsOtpChallenge(t *testing.T) {
	stub := &stubAuthService{
		loginResult: &services.LoginResult{NeedOtp: true, OtpToken: "челлендж-123"},
	}
	r := newAuthRouter(stub)

	w := postJSON(t, r, "/auth/login", gin.H{"username": "taller", "password": "secret"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, true, resp["needOtp"])
	require.Equal(t, "челлендж-123", resp["otpToken"])
	require.NotContains(t, resp, "token")
}

func TestLoginTrustedDeviceReturnsSession(t *testing.T) {
	stub := &stubAuthService{
		loginResult: &services.LoginResult{Token: "jwt-token", WorkshopName: "Taller Uno", Subdomain: "uno"},
	}
	r := newAuthRouter(stub)

	w := postJSON(t, r, "/auth/login", gin.H{"username": "taller", "password": "secret"}, "raw-device-cookie")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "raw-device-cookie", stub.gotCookie)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "jwt-token", resp["token"])
	require.Equal(t, "Taller Uno", resp["workshopName"])
	require.NotContains(t, resp, "needOtp")
}

func TestLoginInvalidCredentialsIsGeneric(t *testing.T) {
	stub := &stubAuthService{loginErr: services.ErrInvalidCredentials}
	r := newAuthRouter(stub)

	w := postJSON(t, r, "/auth/login", gin.H{"username": "nobody", "password": "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Invalid username or password", resp["error"])
}

func TestLoginMissingFields(t *testing.T) {
	r := newAuthRouter(&stubAuthService{})

	w := postJSON(t, r, "/auth/login", gin.H{"username": "taller"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyOtpSetsDeviceCookie(t *testing.T) {
	stub := &stubAuthService{
		verifyResult: &services.VerifyResult{
			Token:        "jwt-token",
			WorkshopName: "Taller Uno",
			Subdomain:    "uno",
			DeviceToken:  "raw-device-token",
		},
	}
	r := newAuthRouter(stub)

	w := postJSON(t, r, "/auth/verify-otp", gin.H{"otpToken": "chal", "code": "123456"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "jwt-token", resp["token"])

	setCookie := w.Header().Get("Set-Cookie")
	require.Contains(t, setCookie, "device_token=raw-device-token")
	require.Contains(t, setCookie, "HttpOnly")
	require.Contains(t, setCookie, "Secure")
	require.Contains(t, setCookie, "SameSite=Strict")
	require.Contains(t, strings.ToLower(setCookie), "max-age=31536000")
}

func TestVerifyOtpIncorrectCode(t *testing.T) {
	stub := &stubAuthService{verifyErr: services.ErrCodeIncorrect}
	r := newAuthRouter(stub)

	w := postJSON(t, r, "/auth/verify-otp", gin.H{"otpToken": "chal", "code": "000000"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Incorrect code", resp["error"])
	require.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestVerifyOtpExpiredChallenge(t *testing.T) {
	stub := &stubAuthService{verifyErr: services.ErrChallengeInvalid}
	r := newAuthRouter(stub)

	w := postJSON(t, r, "/auth/verify-otp", gin.H{"otpToken": "stale", "code": "123456"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Invalid or expired challenge", resp["error"])
}
