package Controllers

import (
	"net/http"

	"github.com/Aryan1411/hms/Models"
	"github.com/Aryan1411/hms/Utils/Token"

	"github.com/gin-gonic/gin"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
}

// Register creates a patient account: the user record plus a linked
// patient profile named after the username.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := Models.CreatePatient(input.Username, input.Password, input.Email, input.Username, "", "")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "patient_id": patient.ID})
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := Models.LoginCheck(input.Username, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"message": "Login successful",
		"token":   token,
		"role":    user.Role,
		"user_id": user.ID,
	}

	// Role-specific profile ids so the client can address its own
	// resources directly.
	switch user.Role {
	case Models.RoleDoctor:
		if doctor, err := Models.GetDoctorByUserID(user.ID); err == nil {
			response["doctor_id"] = doctor.ID
		}
	case Models.RolePatient:
		if patient, err := Models.GetPatientByUserID(user.ID); err == nil {
			response["patient_id"] = patient.ID
		}
	}

	c.JSON(http.StatusOK, response)
}

// Verify is a token validity probe for clients holding a stored token.
func Verify(c *gin.Context) {
	claims, err := Token.ExtractClaims(c)
	if err != nil {
		message := "Token invalid"
		if Token.IsExpired(err) {
			message = "Token expired"
		}
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "message": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"user_id": claims["user_id"],
		"role":    claims["role"],
	})
}

func CurrentUser(c *gin.Context) {
	userID, err := Token.ExtractTokenID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := Models.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success", "data": gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
		"email":    user.Email,
	}})
}
