package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"shopapi/database"
	"shopapi/models"
	"shopapi/utils"
)

// GetAllOrders is the admin view over every user's order history, with the
// same product-name enrichment as the per-user view.
func GetAllOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.OrderCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to fetch orders")
		return
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to decode orders")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"orders": enrichOrders(ctx, orders)})
}
