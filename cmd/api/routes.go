package main

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/karelbyte/redfox-pos/internal/cart"
	"github.com/karelbyte/redfox-pos/internal/checkout"
	"github.com/karelbyte/redfox-pos/internal/config"
	"github.com/karelbyte/redfox-pos/internal/handlers"
	"github.com/karelbyte/redfox-pos/internal/ledger"
	"github.com/karelbyte/redfox-pos/internal/middleware"
	"github.com/karelbyte/redfox-pos/internal/services"
)

func SetupRoutes(log *zap.Logger, cartStore *cart.Store, drawer *ledger.CashLedger, coordinator *checkout.Coordinator, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RegisterGuard(cfg.RegisterID))

	// --- Services ---
	cartService := services.NewCartService(cartStore, log)
	registerService := services.NewRegisterService(drawer, log)
	checkoutService := services.NewCheckoutService(coordinator, log)

	// --- Handlers ---
	cartHandler := handlers.NewCartHandler(cartService)
	registerHandler := handlers.NewRegisterHandler(registerService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)

	// --- Routes ---
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.Clear)
		r.Post("/lines", cartHandler.AddLine)
		r.Patch("/lines/{productRef}/quantity", cartHandler.UpdateQuantity)
		r.Patch("/lines/{productRef}/price", cartHandler.UpdatePrice)
		r.Delete("/lines/{productRef}", cartHandler.RemoveLine)
		r.Put("/client", cartHandler.SetClient)
	})

	r.Route("/register", func(r chi.Router) {
		r.Post("/session", registerHandler.OpenSession)
		r.Get("/session", registerHandler.GetSession)
		r.Post("/session/transactions", registerHandler.RecordTransaction)
		r.Get("/session/balance", registerHandler.GetBalance)
		r.Post("/session/close", registerHandler.CloseSession)
	})

	r.Post("/checkout", checkoutHandler.Checkout)
	r.Post("/receipt/preview", checkoutHandler.PreviewReceipt)

	return r
}
