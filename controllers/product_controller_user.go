package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopapi/database"
	"shopapi/models"
	"shopapi/utils"
)

func GetActiveProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.ProductCollection.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to fetch products")
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to decode products")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"products": products})
}

func GetSingleProduct(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := database.ProductCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product); err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "Product not found")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"product": product})
}

func SearchProductsByName(c *gin.Context) {
	var input struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Name) == "" {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Invalid 'name' parameter, it must be a non-empty string")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"name": bson.M{"$regex": input.Name, "$options": "i"}}
	cursor, err := database.ProductCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to search products")
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to decode products")
		return
	}

	if len(products) == 0 {
		utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "No products found")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"products": products})
}

func SearchProductsByPriceRange(c *gin.Context) {
	var input struct {
		MinPrice *float64 `json:"minPrice"`
		MaxPrice *float64 `json:"maxPrice"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.MinPrice == nil || input.MaxPrice == nil {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Invalid 'minPrice' and/or 'maxPrice' parameters, they must be numbers")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"price": bson.M{"$gte": *input.MinPrice, "$lte": *input.MaxPrice}}
	cursor, err := database.ProductCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to search products")
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to decode products")
		return
	}

	if len(products) == 0 {
		utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "No products found")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"products": products})
}
