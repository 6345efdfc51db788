package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shopapi/database"
	"shopapi/models"
	"shopapi/utils"
)

// Checkout snapshots the user's stored cart into an order. The cart is the
// authoritative source; client-submitted item lists are not trusted. Every
// line's product must still exist, the total must be positive, and the cart
// is cleared once the order is persisted.
func Checkout(c *gin.Context) {
	objUserID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := fetchCart(ctx, objUserID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Cart items are required")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to fetch cart")
		}
		return
	}

	if len(cart.CartItems) == 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Cart items are required")
		return
	}
	if cart.TotalPrice <= 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Total price must be greater than zero")
		return
	}

	items := make([]models.OrderItem, 0, len(cart.CartItems))
	for _, item := range cart.CartItems {
		if _, err := fetchProduct(ctx, item.ProductID); err != nil {
			utils.RespondErrorDetails(c, http.StatusBadRequest, utils.KindValidation,
				"Product not found", item.ProductID.Hex())
			return
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}

	order := models.Order{
		ID:              primitive.NewObjectID(),
		UserID:          objUserID,
		ProductsOrdered: items,
		TotalPrice:      cart.TotalPrice,
		Status:          models.OrderStatusPending,
		OrderedOn:       time.Now(),
	}

	if _, err := database.OrderCollection.InsertOne(ctx, order); err != nil {
		log.Println("Checkout InsertOne error:", err)
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to place order")
		return
	}

	// The order now owns the snapshot; empty the cart.
	if _, err := mutateCart(ctx, objUserID, func(cart *models.Cart) error {
		cart.Clear()
		return nil
	}); err != nil {
		// The order exists either way; a stale cart only inconveniences
		// the next page load.
		utils.RespondSuccess(c, http.StatusCreated, gin.H{
			"message": "Order placed successfully, cart could not be cleared",
			"order":   order,
		})
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// enrichOrders joins each order line with the referenced product's name.
// Lines whose product no longer exists render with a null productId and a
// placeholder name rather than failing the request.
func enrichOrders(ctx context.Context, orders []models.Order) []gin.H {
	result := make([]gin.H, 0, len(orders))
	for _, order := range orders {
		lines := make([]gin.H, 0, len(order.ProductsOrdered))
		for _, item := range order.ProductsOrdered {
			product, err := fetchProduct(ctx, item.ProductID)
			if err != nil {
				lines = append(lines, gin.H{
					"productId":   nil,
					"productName": "Unknown Product",
					"quantity":    item.Quantity,
					"subtotal":    item.Subtotal,
				})
				continue
			}
			lines = append(lines, gin.H{
				"productId":   product.ID,
				"productName": product.Name,
				"quantity":    item.Quantity,
				"subtotal":    item.Subtotal,
			})
		}

		result = append(result, gin.H{
			"id":              order.ID,
			"userId":          order.UserID,
			"productsOrdered": lines,
			"totalPrice":      order.TotalPrice,
			"status":          order.Status,
			"orderedOn":       order.OrderedOn,
		})
	}
	return result
}

func GetMyOrders(c *gin.Context) {
	objUserID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.OrderCollection.Find(ctx, bson.M{"userId": objUserID})
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
