package controllers

import (
	"context"
	"errors"
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

// Cart writes are compare-and-swapped on the document version so that two
// interleaved fetch-then-save cycles for the same user cannot drop a
// mutation. On conflict the whole read-modify-write is retried.
const cartSaveAttempts = 3

var (
	errCartConflict = errors.New("cart was modified concurrently")
	errItemNotFound = errors.New("item not found in cart")
)

func fetchCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := database.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func saveCart(ctx context.Context, cart *models.Cart) error {
	result, err := database.CartCollection.UpdateOne(ctx,
		bson.M{"_id": cart.ID, "version": cart.Version},
		bson.M{
			"$set": bson.M{"cartItems": cart.CartItems, "totalPrice": cart.TotalPrice},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errCartConflict
	}
	cart.Version++
	return nil
}

// mutateCart fetches the user's cart, applies mutate and saves, retrying on
// version conflicts. Returns mongo.ErrNoDocuments when the user has no cart.
func mutateCart(ctx context.Context, userID primitive.ObjectID, mutate func(*models.Cart) error) (*models.Cart, error) {
	var lastErr error
	for attempt := 0; attempt < cartSaveAttempts; attempt++ {
		cart, err := fetchCart(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := mutate(cart); err != nil {
			return nil, err
		}
		lastErr = saveCart(ctx, cart)
		if lastErr == errCartConflict {
			continue
		}
		if lastErr != nil {
			return nil, lastErr
		}
		return cart, nil
	}
	return nil, lastErr
}

func fetchProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := database.ProductCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetCart returns the stored cart with each line joined against the product's
// current name and price. Display subtotals are repriced at read time; the
// stored document is not touched.
func GetCart(c *gin.Context) {
	objUserID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, err := fetchCart(ctx, objUserID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "Cart not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to fetch cart")
		}
		return
	}

	var totalPrice float64
	items := make([]gin.H, 0, len(cart.CartItems))
	for _, item := range cart.CartItems {
		product, err := fetchProduct(ctx, item.ProductID)
		if err != nil {
			// Product deleted since the item was added; degrade the line
			// instead of failing the whole cart.
			items = append(items, gin.H{
				"productId":   nil,
				"productName": "Unknown Product",
				"quantity":    item.Quantity,
				"subtotal":    item.Subtotal,
			})
			totalPrice += item.Subtotal
			continue
		}

		subtotal := float64(item.Quantity) * product.Price
		totalPrice += subtotal
		items = append(items, gin.H{
			"productId":   product.ID,
			"productName": product.Name,
			"price":       product.Price,
			"quantity":    item.Quantity,
			"subtotal":    subtotal,
		})
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"cart": gin.H{
			"id":         cart.ID,
			"userId":     cart.UserID,
			"cartItems":  items,
			"totalPrice": totalPrice,
			"orderedOn":  cart.OrderedOn,
		},
	})
}

// AddToCart derives the line subtotal from the product's current price.
// Adding a product already in the cart merges quantities and subtotals.
func AddToCart(c *gin.Context) {
	objUserID, ok := currentUserID(c)
	if !ok {
		return
	}

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ProductID == "" || body.Quantity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "productId and a positive quantity are required")
		return
	}

	objProductID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Invalid productId")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	product, err := fetchProduct(ctx, objProductID)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "Product not found")
		return
	}

	var cart *models.Cart
	for attempt := 0; attempt < cartSaveAttempts; attempt++ {
		cart, err = fetchCart(ctx, objUserID)
		if err == mongo.ErrNoDocuments {
			// Lazy creation on first add.
			cart = models.NewCart(objUserID)
			cart.AddItem(objProductID, body.Quantity, product.Price)
			if _, err = database.CartCollection.InsertOne(ctx, cart); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					// Another request created the cart first; merge into it.
					continue
				}
				utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to create cart")
				return
			}
			break
		}
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to fetch cart")
			return
		}

		cart.AddItem(objProductID, body.Quantity, product.Price)
		err = saveCart(ctx, cart)
		if err == errCartConflict {
			continue
		}
		if err != nil {
			log.Println("AddToCart save error:", err)
			utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to save cart")
			return
		}
		break
	}
	if err != nil {
		// Only the concurrent-modification paths survive the loop.
		utils.RespondError(c, http.StatusConflict, utils.KindConflict, "Cart was modified concurrently, try again")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"cart":    cart,
	})
}

func UpdateCartQuantity(c *gin.Context) {
	objUserID, ok := currentUserID(c)
	if !ok {
		return
	}

	var body struct {
		ProductID   string `json:"productId"`
		NewQuantity int    `json:"newQuantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ProductID == "" {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "productId and newQuantity are required")
		return
	}
	if body.NewQuantity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Quantity must be greater than zero")
		return
	}

	objProductID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Invalid productId")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The quantity path reprices the line at the product's current price.
	product, err := fetchProduct(ctx, objProductID)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "Product not found")
		return
	}

	cart, err := mutateCart(ctx, objUserID, func(cart *models.Cart) error {
		if !cart.UpdateQuantity(objProductID, body.NewQuantity, product.Price) {
			return errItemNotFound
		}
		return nil
	})
	if err != nil {
		respondCartMutationError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message":       "Cart updated successfully",
		"newTotalPrice": cart.TotalPrice,
	})
}

func RemoveFromCart(c *gin.Context) {
	objUserID, ok := currentUserID(c)
	if !ok {
		return
	}

	objProductID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.KindValidation, "Invalid productId")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, err := mutateCart(ctx, objUserID, func(cart *models.Cart) error {
		if !cart.RemoveItem(objProductID) {
			return errItemNotFound
		}
		return nil
	})
	if err != nil {
		respondCartMutationError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message":       "Item removed from cart successfully",
		"newTotalPrice": cart.TotalPrice,
	})
}

func ClearCart(c *gin.Context) {
	objUserID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := mutateCart(ctx, objUserID, func(cart *models.Cart) error {
		cart.Clear()
		return nil
	})
	if err != nil {
		respondCartMutationError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message":       "Cart cleared successfully",
		"newTotalPrice": 0,
	})
}

func respondCartMutationError(c *gin.Context, err error) {
	switch {
	case err == mongo.ErrNoDocuments:
		utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "Cart not found")
	case errors.Is(err, errItemNotFound):
		utils.RespondError(c, http.StatusNotFound, utils.KindNotFound, "Item not found in cart")
	case errors.Is(err, errCartConflict):
		utils.RespondError(c, http.StatusConflict, utils.KindConflict, "Cart was modified concurrently, try again")
	default:
		log.Println("Cart mutation error:", err)
		utils.RespondError(c, http.StatusInternalServerError, utils.KindStore, "Failed to update cart")
	}
}
