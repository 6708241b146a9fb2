package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Picture   *string `json:"picture"`
}

// GET /user
func GetUser(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var user models.User
		if err := s.Get(c.Request.Context(), models.UsersCollection, userID, &user); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
func GetAllUsers(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := s.Query(c.Request.Context(), models.UsersCollection, nil, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// PUT /user
func UpdateUser(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		err := s.RunTransaction(c.Request.Context(), func(tx store.Tx) error {
			if err := tx.Get(models.UsersCollection, userID, &user); err != nil {
				return err
			}
			if input.FirstName != nil {
				user.FirstName = *input.FirstName
			}
			if input.LastName != nil {
				user.LastName = *input.LastName
			}
			if input.Phone != nil {
				user.Phone = *input.Phone
			}
			if input.Picture != nil {
				user.Picture = *input.Picture
			}
			tx.Set(models.UsersCollection, userID, user)
			return nil
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
