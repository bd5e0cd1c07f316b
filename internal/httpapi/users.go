package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"registration/internal/auth"
	"registration/internal/user"
)

type userRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name"`
	PhotoURL    string `json:"photoURL"`
	Role        string `json:"role"`
	Batch       string `json:"batch"`
	StudentID   string `json:"studentID"`
	AccountType string `json:"accountType"`
	Department  string `json:"department"`
	Phone       string `json:"phone"`
}

func (r userRequest) toUser() user.User {
	return user.User{
		Email:       r.Email,
		Name:        r.Name,
		PhotoURL:    r.PhotoURL,
		Role:        r.Role,
		Batch:       r.Batch,
		StudentID:   r.StudentID,
		AccountType: r.AccountType,
		Department:  r.Department,
		Phone:       r.Phone,
	}
}

// CreateUser inserts an account on first sight of an email and issues a
// session token carrying the stored role.
func (h *Handler) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, kindInvalid, err.Error(), nil)
		return
	}

	u, created, err := h.users.Create(c.Request.Context(), req.toUser())
	if err != nil {
		writeError(c, err)
		return
	}

	tok, err := auth.Issue(u.Email, u.Role, h.jwtIssuer, h.jwtSigningKey, h.tokenTTL)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"success":    true,
		"created":    created,
		"user":       u,
		"token":      tok.Value,
		"expires_at": tok.ExpiresAt.Unix(),
	})
}

// ListUsers returns all accounts.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if users == nil {
		users = []user.User{}
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns one account by email.
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpsertUser creates or updates the account at the email in the path.
func (h *Handler) UpsertUser(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		PhotoURL    string `json:"photoURL"`
		Role        string `json:"role"`
		Batch       string `json:"batch"`
		StudentID   string `json:"studentID"`
		AccountType string `json:"accountType"`
		Department  string `json:"department"`
		Phone       string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, kindInvalid, err.Error(), nil)
		return
	}

	u, err := h.users.Upsert(c.Request.Context(), c.Param("email"), user.User{
		Name:        req.Name,
		PhotoURL:    req.PhotoURL,
		Role:        req.Role,
		Batch:       req.Batch,
		StudentID:   req.StudentID,
		AccountType: req.AccountType,
		Department:  req.Department,
		Phone:       req.Phone,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

// DeleteUser removes an account by row id.
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user deleted"})
}
