package routes

import (
	"paygate/controllers/admin"
	"paygate/controllers/callback"
	"paygate/controllers/merchant"
	"paygate/middlewares"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	app.Post("/admin/login", admin.Login)

	adminroutes := app.Group("/admin", middlewares.AdminAuth)
	adminroutes.Post("/settle-amount", admin.SettleAmount)
	adminroutes.Get("/platform-charges", admin.ListPlatformCharges)
	adminroutes.Post("/platform-charges", admin.ActivatePlatformCharge)
	adminroutes.Post("/merchants", admin.RegisterMerchant)
	adminroutes.Get("/merchants/:merchant_code", admin.MerchantInfo)
	adminroutes.Post("/merchants/:merchant_code/status", admin.ToggleMerchantStatus)
	adminroutes.Get("/merchants/:merchant_code/charges", admin.ListMerchantCharges)
	adminroutes.Post("/merchants/:merchant_code/charges", admin.CreateMerchantCharge)
	adminroutes.Delete("/merchants/:merchant_code/charges/:id", admin.DeleteMerchantCharge)

	app.Post("/payout", middlewares.MerchantAuth, merchant.CreatePayout)
	merchantroutes := app.Group("/merchant", middlewares.MerchantAuth)
	merchantroutes.Post("/balance", merchant.CheckBalance)

	app.Post("/callback/payout", callback.PayoutStatus)
}
