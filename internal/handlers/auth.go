package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tracktime/internal/auth"
	"tracktime/internal/httpx"
	"tracktime/internal/models"
	"tracktime/internal/validation"
)

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register creates a user and, in the same transaction, their empty
// profile. The profile step is explicit here rather than a save hook so
// nothing fires across modules implicitly.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Detail(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	v := validation.Violations{}
	validation.Required("username", req.Username, v)
	validation.MaxLength("username", req.Username, 150, v)
	validation.Required("password", req.Password, v)
	if !v.Empty() {
		httpx.FieldErrors(w, v)
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if count > 0 {
		v.Add("username", "A user with that username already exists.")
		httpx.FieldErrors(w, v)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Could not hash password.")
		return
	}
	user := models.User{Username: req.Username, Email: req.Email, Password: string(hash)}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Profile{UserID: user.ID}).Error
	})
	if err != nil {
		// The uniqueness pre-check can lose a race; report it the same way.
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			v.Add("username", "A user with that username already exists.")
			httpx.FieldErrors(w, v)
			return
		}
		httpx.Detail(w, http.StatusInternalServerError, "Could not create user.")
		return
	}
	httpx.JSON(w, http.StatusCreated, registerResponse{Username: user.Username, Email: user.Email})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// Login validates credentials and hands back the user's durable token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Detail(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	v := validation.Violations{}
	validation.Required("username", req.Username, v)
	validation.Required("password", req.Password, v)
	if !v.Empty() {
		httpx.FieldErrors(w, v)
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		httpx.Detail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		httpx.Detail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	tok, err := auth.GetOrCreateToken(h.DB, user.ID)
	if err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Could not issue token.")
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{Token: tok.Key, UserID: user.ID, Username: user.Username})
}

type profileResponse struct {
	Name      string `json:"name"`
	Company   string `json:"company"`
	Team      string `json:"team"`
	Position  string `json:"position"`
	UserEmail string `json:"user_email"`
}

func (h *AuthHandler) profileFor(userID uint) (*models.Profile, *models.User, error) {
	var profile models.Profile
	if err := h.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, nil, err
	}
	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return nil, nil, err
	}
	return &profile, &user, nil
}

// Profile serves GET and PATCH for the caller's own profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	profile, user, err := h.profileFor(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.NotFound(w)
			return
		}
		httpx.Detail(w, http.StatusInternalServerError, "Database error.")
		return
	}

	if r.Method == http.MethodPatch {
		var body struct {
			Name     *string `json:"name"`
			Company  *string `json:"company"`
			Team     *string `json:"team"`
			Position *string `json:"position"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.Detail(w, http.StatusBadRequest, "Malformed JSON body.")
			return
		}
		if body.Name != nil {
			profile.Name = *body.Name
		}
		if body.Company != nil {
			profile.Company = *body.Company
		}
		if body.Team != nil {
			profile.Team = *body.Team
		}
		if body.Position != nil {
			profile.Position = *body.Position
		}
		if err := h.DB.Save(profile).Error; err != nil {
			httpx.Detail(w, http.StatusInternalServerError, "Could not update profile.")
			return
		}
	}

	httpx.JSON(w, http.StatusOK, profileResponse{
		Name:      profile.Name,
		Company:   profile.Company,
		Team:      profile.Team,
		Position:  profile.Position,
		UserEmail: user.Email,
	})
}
