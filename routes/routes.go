package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/Iftekhar-007/real-estate-server/handlers"
	"github.com/Iftekhar-007/real-estate-server/middleware"
	"github.com/Iftekhar-007/real-estate-server/store"
	"github.com/Iftekhar-007/real-estate-server/utils"
)

type Controllers struct {
	Users      *handlers.UserController
	Properties *handlers.PropertyController
	Offers     *handlers.OfferController
	Payments   *handlers.PaymentController
	Wishlist   *handlers.WishlistController
	Reviews    *handlers.ReviewController
}

func RegisterRoutes(e *echo.Echo, users store.UserStore, tokens *utils.TokenManager, ctrl Controllers) {
	e.GET("/health", handlers.HealthCheck)

	// public
	e.POST("/users", ctrl.Users.Register)
	e.POST("/login", ctrl.Users.Login)
	e.GET("/agents", ctrl.Users.GetAgents)
	e.GET("/properties/advertised", ctrl.Properties.AdvertisedProperties)
	e.GET("/reviews/all", ctrl.Reviews.AllReviews)

	// everything below requires a verified identity
	auth := e.Group("", middleware.Authenticate(users, tokens))

	auth.GET("/users", ctrl.Users.GetAllUsers)
	auth.GET("/users/role/:email", ctrl.Users.GetRole)
	auth.GET("/users/:email", ctrl.Users.GetUserByEmail)
	auth.PATCH("/users/make-admin/:id", ctrl.Users.MakeAdmin)
	auth.PATCH("/users/make-agent/:id", ctrl.Users.MakeAgent)
	auth.PATCH("/users/mark-fraud/:id", ctrl.Users.MarkFraud)
	auth.DELETE("/users/:id", ctrl.Users.DeleteUser)

	auth.POST("/properties", ctrl.Properties.CreateProperty)
	auth.GET("/properties", ctrl.Properties.ListProperties)
	auth.GET("/my-properties", ctrl.Properties.MyProperties)
	auth.GET("/all-properties", ctrl.Properties.AllProperties)
	auth.GET("/properties/details/:id", ctrl.Properties.PropertyDetails)
	auth.GET("/properties/:id", ctrl.Properties.GetProperty)
	auth.PATCH("/properties/verify/:id", ctrl.Properties.VerifyProperty)
	auth.PUT("/properties/advertise/:id", ctrl.Properties.AdvertiseProperty)
	auth.PATCH("/properties/:id", ctrl.Properties.UpdateProperty)
	auth.DELETE("/properties/:id", ctrl.Properties.DeleteProperty)
	auth.GET("/sold-properties/:agentEmail", ctrl.Properties.SoldProperties)

	auth.POST("/offers", ctrl.Offers.SubmitOffer)
	auth.GET("/offers/check", ctrl.Offers.CheckOffer)
	auth.GET("/offers/user/:email", ctrl.Offers.OffersByUser)
	auth.GET("/offers/agent/:email", ctrl.Offers.OffersByAgent)
	auth.GET("/offers/property-status/:propertyId", ctrl.Offers.PropertyBoughtStatus)
	auth.PATCH("/offers/accept/:id", ctrl.Offers.AcceptOffer)
	auth.PATCH("/offers/reject/:id", ctrl.Offers.RejectOffer)
	auth.PATCH("/offers/payment-success/:id", ctrl.Payments.PaymentSuccess)
	auth.GET("/offers/:id", ctrl.Offers.GetOffer)

	auth.POST("/create-payment-intent", ctrl.Payments.CreatePaymentIntent)

	auth.POST("/wishlist", ctrl.Wishlist.AddToWishlist)
	auth.GET("/wishlist", ctrl.Wishlist.GetWishlist)
	auth.DELETE("/wishlist/:id", ctrl.Wishlist.RemoveFromWishlist)

	auth.POST("/reviews", ctrl.Reviews.CreateReview)
	auth.GET("/reviews", ctrl.Reviews.AllReviews)
	auth.GET("/reviews/user/:email", ctrl.Reviews.ReviewsByUser)
	auth.GET("/reviews/:propertyId", ctrl.Reviews.ReviewsByProperty)
	auth.DELETE("/reviews/:id", ctrl.Reviews.DeleteReview)
}
