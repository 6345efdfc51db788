package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopapi/config"
	"shopapi/database"
	"shopapi/models"
	"shopapi/utils"
)

// saveProductImage stores an optional "image" form file and returns its
// public URL, or "" when the request carries no file.
func saveProductImage(c *gin.Context) (string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	filename, err := utils.SaveUpload(file, header, config.GetEnv("UPLOAD_DIR", "uploads"))
	if err != nil {
		return "", err
	}
	return "/uploads/" + filename, nil
}

// CreateProduct accepts a multipart form so the image can ride along with
// the fields, matching the storefront's product form.
func CreateProduct(c *gin.Context) {
	name := c.PostForm("name")
	description := c.PostForm("description")
	priceStr := c.PostForm("price")

	if name == "" || description == "" || priceStr == "" {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Missing required fields")
		return
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Price must be a non-negative number")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var existing models.Product
	err = database.ProductCollection.FindOne(ctx, bson.M{"name": name}).Decode(&existing)
	if err == nil {
		utils.RespondError(c, http.StatusConflict, utils.KindConflict, "Product already exists")
		return
	}
	if err != mongo.ErrNoDocuments {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to check existing product")
		return
	}

	imageURL, err := saveProductImage(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to save image")
		return
	}

	product := models.Product{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		Price:       price,
		IsActive:    true,
		ImageURL:    imageURL,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if _, err := database.ProductCollection.InsertOne(ctx, product); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to create product")
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, gin.H{"product": product})
}

func GetAllProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.ProductCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to fetch products")
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to decode products")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func UpdateProduct(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Invalid product id")
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if name := c.PostForm("name"); name != "" {
		update["name"] = name
	}
	if description := c.PostForm("description"); description != "" {
		update["description"] = description
	}
	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Price must be a non-negative number")
			return
		}
		update["price"] = price
	}

	imageURL, err := saveProductImage(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to save image")
		return
	}
	if imageURL != "" {
		update["imageUrl"] = imageURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err = database.ProductCollection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": update}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "Product not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to update product")
		}
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"product": updated})
}

func setProductActive(c *gin.Context, active bool) {
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

	if product.IsActive == active {
		state := "archived"
		if active {
			state = "active"
		}
		utils.RespondSuccess(c, http.StatusOK, gin.H{
			"message": "Product already " + state,
			"product": product,
		})
		return
	}

	_, err = database.ProductCollection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now()}},
	)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to update product")
		return
	}

	action := "archived"
	if active {
		action = "activated"
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Product " + action + " successfully"})
}

func ArchiveProduct(c *gin.Context) {
	setProductActive(c, false)
}

func ActivateProduct(c *gin.Context) {
	setProductActive(c, true)
}

func DeleteProduct(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.ProductCollection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to delete product")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "Product not found")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
