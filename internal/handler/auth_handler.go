package handler

import (
	"errors"
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
)

// 認証まわり（/register /login /logout /token/refresh /users/me）のHTTP
type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// /token/refresh /logout のリクエストボディ。
type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// ログイン成功時はaccessとrefreshを両方bodyで返す。
type loginResponseBody struct {
	User         usecase.UserDTO `json:"user"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"`
}

type refreshResponseBody struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.POST("/register", h.register)
	e.POST("/login", h.login)
	e.POST("/token/refresh", h.refresh)

	// logoutはbearer必須（誰がログアウトしたか分かる状態でのみ受ける）
	e.POST("/logout", h.logout, middleware.AuthJWT(cfg))

	g := e.Group("/users")
	g.Use(middleware.AuthJWT(cfg))
	g.GET("/me", h.me)
	g.PATCH("/me", h.updateMe)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid body"})
	}

	userAgent := c.Request().Header.Get("User-Agent")

	out, err := h.uc.Register(c.Request().Context(), req, userAgent)
	if err != nil {
		return writeAuthError(c, err)
	}

	//登録成功はloginと同じ形（user + token対）で返す
	return c.JSON(http.StatusCreated, loginResponseBody{
		User:         out.Body.User,
		AccessToken:  out.Body.Token.AccessToken,
		RefreshToken: out.RefreshTokenPlain,
		ExpiresIn:    out.Body.Token.ExpiresIn,
	})
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid body"})
	}

	// User-Agentを取得（refreshtokenに紐付ける）
	userAgent := c.Request().Header.Get("User-Agent")

	out, err := h.uc.Login(c.Request().Context(), req, userAgent)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, loginResponseBody{
		User:         out.Body.User,
		AccessToken:  out.Body.Token.AccessToken,
		RefreshToken: out.RefreshTokenPlain,
		ExpiresIn:    out.Body.Token.ExpiresIn,
	})
}

func (h *AuthHandler) refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid body"})
	}

	userAgent := c.Request().Header.Get("User-Agent")

	out, err := h.uc.Refresh(c.Request().Context(), req.Refresh, userAgent)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, refreshResponseBody{
		AccessToken:  out.Body.AccessToken,
		RefreshToken: out.RefreshTokenPlain,
		ExpiresIn:    out.Body.ExpiresIn,
	})
}

func (h *AuthHandler) logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid body"})
	}

	out, err := h.uc.Logout(c.Request().Context(), req.Refresh)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "unauthorized"})
	}

	out, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) updateMe(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "unauthorized"})
	}

	var req usecase.UpdateMeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid body"})
	}

	out, err := h.uc.UpdateMe(c.Request().Context(), userID, req)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// auth/address系のsentinel errorをHTTPに変換する。
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, validator.ErrInvalidInput),
		errors.Is(err, validator.ErrInvalidRefresh):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid input"})

	// 重複も登録入力の検証エラーとして400で返す
	case errors.Is(err, validator.ErrUsernameAlreadyUsed):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "username already used"})

	case errors.Is(err, validator.ErrEmailAlreadyUsed):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "email already used"})

	case errors.Is(err, usecase.ErrUnauthorized),
		errors.Is(err, usecase.ErrSecurityIncident):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "unauthorized"})

	case errors.Is(err, usecase.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Detail: "forbidden"})

	case errors.Is(err, usecase.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Detail: "not found"})

	case errors.Is(err, usecase.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Detail: "conflict"})

	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "internal error"})
	}
}
