package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"autoclient/internal/models"
	"autoclient/internal/services"
)

const (
	deviceCookieName = "device_token"
	deviceCookieAge  = 365 * 24 * 60 * 60 // год, в секундах
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// @Summary      Регистрация мастерской
// @Description  Создаёт аккаунт мастерской и отправляет приветственное письмо
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.RegisterRequest  true  "Данные мастерской"
// @Success      201      {object}  models.Workshop
// @Failure      400      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w, err := h.auth.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or subdomain already taken"})
			return
		}
		log.Printf("[auth][register] failed: username=%q err=%v", req.Username, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, w)
}

// @Summary      Вход в систему
// @Description  Пароль + доверенное устройство, иначе OTP-челлендж на почту
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.LoginRequest  true  "Данные для входа"
// @Success      200      {object}  map[string]interface{}
// @Failure      401      {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// cookie может отсутствовать — это штатный путь к OTP
	deviceCookie, _ := c.Cookie(deviceCookieName)

	res, err := h.auth.Login(req.Username, req.Password, deviceCookie)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// не различаем "нет такого пользователя" и "пароль не подошёл"
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		log.Printf("[auth][login] failed: username=%q err=%v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if res.NeedOtp {
		c.JSON(http.StatusOK, gin.H{"needOtp": true, "otpToken": res.OtpToken})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":        res.Token,
		"workshopName": res.WorkshopName,
		"subdomain":    res.Subdomain,
	})
}

// @Summary      Подтверждение OTP-кода
// @Description  Проверяет код, выдаёт сессию и ставит cookie доверенного устройства
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.VerifyOtpRequest  true  "Токен челленджа и код"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req models.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.auth.VerifyOtp(req.OtpToken, req.Code, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCodeIncorrect):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect code"})
		case errors.Is(err, services.ErrChallengeInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired challenge"})
		default:
			log.Printf("[auth][verify-otp] failed: err=%v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	// токен устройства живёт только в HttpOnly cookie
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(deviceCookieName, res.DeviceToken, deviceCookieAge, "/", "", true, true)

	c.JSON(http.StatusOK, gin.H{
		"token":        res.Token,
		"workshopName": res.WorkshopName,
		"subdomain":    res.Subdomain,
	})
}

// @Summary      Профиль текущей мастерской
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Workshop
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	w, err := h.auth.Me(workshopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if w == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Workshop not found"})
		return
	}
	c.JSON(http.StatusOK, w)
}

// @Summary      Доверенные устройства мастерской
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.TrustedDevice
// @Router       /auth/devices [get]
func (h *AuthHandler) ListDevices(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	devices, err := h.auth.ListDevices(workshopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if devices == nil {
		devices = []*models.TrustedDevice{}
	}
	c.JSON(http.StatusOK, devices)
}

// @Summary      Отзыв доверенного устройства
// @Description  Следующий вход с этого устройства снова потребует OTP
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "ID устройства"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Router       /auth/devices/{id}/revoke [post]
func (h *AuthHandler) RevokeDevice(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	deviceID, ok := paramID(c, "id")
	if !ok {
		return
	}
	revoked, err := h.auth.RevokeDevice(workshopID, deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !revoked {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"revoked": true})
}
