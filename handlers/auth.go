package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"artists/auth"
	"artists/db"
	"artists/httperr"
	"artists/models"
	"artists/notifications"
)

type RegistrarRequest struct {
	Nome  string `json:"nome" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Senha string `json:"senha" binding:"required,min=6"`
}

type LoginRequest struct {
	Login string `json:"login" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func AuthRegister(c *gin.Context) {
	var req RegistrarRequest
	if err := bindJSON(c, &req); err != nil {
		httperr.Respond(c, err)
		return
	}
	var response AuthResponse
	err := db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		user, err := models.UserCreate(tx, req.Nome, req.Email, req.Senha)
		if err != nil {
			return err
		}
		response, err = issueTokenPair(tx, &user)
		return err
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func AuthLogin(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		httperr.Respond(c, err)
		return
	}
	var response AuthResponse
	err := db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		user, err := models.UserByLogin(tx, req.Login)
		if err != nil {
			return err
		}
		if !user.Active || !user.CheckPassword(req.Senha) {
			return httperr.NotFound("Usuário não encontrado")
		}
		response, err = issueTokenPair(tx, &user)
		return err
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// AuthRefresh exchanges a usable refresh token for a fresh pair. The old
// token set is revoked by the issue step, so a token can only ever be
// exchanged once: a second use means it was stolen and replayed.
func AuthRefresh(c *gin.Context) {
	var req RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		httperr.Respond(c, err)
		return
	}
	var response AuthResponse
	err := db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		user, err := models.ValidateRefreshToken(tx, req.RefreshToken)
		if err != nil {
			return err
		}
		response, err = issueTokenPair(tx, &user)
		return err
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func AuthLogout(c *gin.Context) {
	var req RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		httperr.Respond(c, err)
		return
	}
	err := db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		return models.RevokeRefreshToken(tx, req.RefreshToken)
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func issueTokenPair(tx *gorm.DB, user *models.User) (AuthResponse, error) {
	access, err := auth.NewAccessToken(user)
	if err != nil {
		return AuthResponse{}, err
	}
	refresh, err := models.IssueRefreshToken(tx, user)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{AccessToken: access, RefreshToken: refresh}, nil
}
