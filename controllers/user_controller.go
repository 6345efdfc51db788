package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"shopapi/database"
	"shopapi/models"
	"shopapi/utils"
)

func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID := c.GetString("userId")
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, utils.KindAuth, "Invalid user id in token")
		return primitive.NilObjectID, false
	}
	return objID, true
}

func GetProfile(c *gin.Context) {
	objUserID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := database.UserCollection.FindOne(ctx, bson.M{"_id": objUserID}).Decode(&user)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "User not found")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"user": user})
}

func UpdatePassword(c *gin.Context) {
	objUserID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || len(input.NewPassword) < 8 {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Password must be at least 8 characters")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), 10)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to hash password")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.UserCollection.UpdateOne(ctx,
		bson.M{"_id": objUserID},
		bson.M{"$set": bson.M{"password": string(hashed)}},
	)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to update password")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "User not found")
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, gin.H{"message": "Password reset successfully"})
}

// PromoteToAdmin flips isAdmin on the targeted user. Admin only.
func PromoteToAdmin(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err = database.UserCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": targetID},
		bson.M{"$set": bson.M{"isAdmin": true}},
		opts,
	).Decode(&updated)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "User not found")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"updatedUser": updated})
}
