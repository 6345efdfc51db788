package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"shopapi/auth"
	"shopapi/database"
	"shopapi/models"
	"shopapi/utils"
)

func Register(c *gin.Context) {
	var input struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Email     string `json:"email" binding:"required"`
		MobileNo  string `json:"mobileNo" binding:"required"`
		Password  string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "All fields (firstName, lastName, email, mobileNo, password) are required")
		return
	}

	if !strings.Contains(input.Email, "@") {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Invalid email format")
		return
	}
	if len(input.MobileNo) != 11 {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Mobile number invalid")
		return
	}
	if len(input.Password) < 8 {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Password must be at least 8 characters")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var existing models.User
	err := database.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&existing)
	if err == nil {
		utils.RespondError(c, http.StatusConflict, utils.KindConflict, "Email already registered")
		return
	}
	if err != mongo.ErrNoDocuments {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to check existing user")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), 10)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to hash password")
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		MobileNo:  input.MobileNo,
		Password:  string(hashed),
		CreatedAt: time.Now(),
	}

	if _, err := database.UserCollection.InsertOne(ctx, user); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to register")
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, gin.H{"message": "Registered successfully"})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Email and password are required")
		return
	}
	if !strings.Contains(input.Email, "@") {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Invalid email format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := database.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "No email found")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		utils.RespondError(c, http.StatusUnauthorized, utils.KindAuth, "Email and password do not match")
		return
	}

	token, err := auth.CreateAccessToken(user)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to create access token")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"access": token,
		"user": gin.H{
			"id":      user.ID.Hex(),
			"isAdmin": user.IsAdmin,
		},
	})
}

// Logout blacklists the presented token for its remaining lifetime.
func Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Token required")
		return
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	claims, err := auth.ParseToken(tokenString)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, utils.KindAuth, "Invalid token")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := database.BlacklistToken(ctx, tokenString, ttl); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to revoke token")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}
