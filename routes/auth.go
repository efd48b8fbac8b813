package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventmanagement/middlewares"
	"eventmanagement/models"
	"eventmanagement/services"
)

/* --------------------- Auth --------------------- */

// POST /api/auth/register
func (d *deps) register(c *gin.Context) {
	var req struct {
		Name        string             `json:"name"`
		Email       string             `json:"email"`
		Password    string             `json:"password"`
		PhoneNumber models.PhoneNumber `json:"phoneNumber"`
		Phonenumber models.PhoneNumber `json:"Phonenumber"` // field name the web client posts
		Role        models.Role        `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	// prefer the documented name, fall back to the client's spelling
	phone := req.PhoneNumber
	if phone == 0 {
		phone = req.Phonenumber
	}

	res, err := d.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: phone,
		Role:        req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			c.JSON(http.StatusBadRequest, gin.H{"msg": "User Already Exist"})
		case validationFailed(c, err):
		default:
			serverError(c, err)
		}
		return
	}

	d.log.Info().Str("user_id", res.User.ID.Hex()).Str("role", string(res.User.Role)).Msg("user registered")
	c.JSON(http.StatusCreated, gin.H{
		"msg":   "User Registered Successfully",
		"role":  res.User.Role,
		"token": res.Token,
	})
}

// POST /api/auth/login
func (d *deps) login(c *gin.Context) {
	var req struct {
		Email    string      `json:"email"`
		Password string      `json:"password"`
		Role     models.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	token, err := d.auth.Login(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRoleMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Role mismatch"})
		case errors.Is(err, models.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid Email or Password"})
		default:
			serverError(c, err)
		}
		return
	}

	// the cookie, not the body, carries the session from here on
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.SessionCookie, token, int(d.cookieMaxAge.Seconds()), "/", "", d.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"msg": "User Login Succesfully"})
}

// GET /api/auth/profile
func (d *deps) profile(c *gin.Context) {
	user, err := d.auth.Profile(c.Request.Context(), c.GetString(middlewares.CtxUserID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/auth/logout
func (d *deps) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	// MaxAge<0 makes the browser drop it now
	c.SetCookie(middlewares.SessionCookie, "", -1, "/", "", d.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"msg": "User logged out successfully"})
}
