package auth

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

type LoginRequest struct {
	IDToken   string `json:"idToken" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// ---------------------------------------------
// FIREBASE USER LOGIN
// ---------------------------------------------
// Verifies the Firebase ID token, fetches-or-creates the user profile
// document, and issues a session JWT for the API.
func FirebaseLoginHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if firebaseAuth == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Firebase login is not configured"})
			return
		}

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		ctx := c.Request.Context()

		// Verify Firebase token
		token, err := firebaseAuth.VerifyIDTokenAndCheckRevoked(ctx, req.IDToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Firebase ID token"})
			return
		}
		if token.Audience != projectID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token audience"})
			return
		}

		email, _ := token.Claims["email"].(string)
		picture, _ := token.Claims["picture"].(string)
		uid := token.UID

		// ---------------------------------------------
		// Fetch or create the user profile document
		// ---------------------------------------------
		var user models.User
		err = s.Get(ctx, models.UsersCollection, uid, &user)
		switch {
		case errors.Is(err, store.ErrNotFound):
			user = models.User{
				ID:        uid,
				Email:     email,
				Phone:     req.Phone,
				FirstName: req.FirstName,
				LastName:  req.LastName,
				Picture:   picture,
				Provider:  "firebase",
				CreatedAt: time.Now(),
			}
			if err := s.Set(ctx, models.UsersCollection, uid, user); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				return
			}
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		default:
			// Existing user: refresh the mutable profile fields.
			user.Picture = picture
			if req.FirstName != "" {
				user.FirstName = req.FirstName
			}
			if req.LastName != "" {
				user.LastName = req.LastName
			}
			if err := s.Set(ctx, models.UsersCollection, uid, user); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"user":    user,
			"token":   issueJWT(user.Email, "user", user.ID, user.DisplayName(), user.Picture),
		})
	}
}

// issueJWT generates a session token for a user
func issueJWT(email, role, userID, name, picture string) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"name":    name,
		"picture": picture,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		// In production, you may want to handle this differently
		return ""
	}

	return signedToken
}
