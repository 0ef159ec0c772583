package server

import (
	handler "auction-engine/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(service handler.AuctionServiceInterface) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(IdentityMiddleware)      // participant identity from upstream auth headers

	auctionHandler := handler.NewAuctionHandler(service)

	auctions := router.Group("/auctions")
	{
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/bids", auctionHandler.ListBidsHandler)
		auctions.GET("/:auction_id/registrations", auctionHandler.ListRegistrationsHandler)

		auctions.POST("/:auction_id/register", RequireIdentity, auctionHandler.RegisterHandler)
		auctions.POST("/:auction_id/bid", RequireIdentity, auctionHandler.PlaceBidHandler)

		// auction management and the KYC decision feed are admin-only
		auctions.POST("", RequireIdentity, RequireRole(AdminRole), auctionHandler.CreateAuctionHandler)
		auctions.PATCH("/:auction_id/status", RequireIdentity, RequireRole(AdminRole), auctionHandler.TransitionStatusHandler)
		auctions.PUT("/:auction_id/registrations/:user_id/kyc", RequireIdentity, RequireRole(AdminRole), auctionHandler.ApplyKYCDecisionHandler)
	}

	return router
}
