package main

import (
	"github.com/eatwell/eatwell-backend/internal/app/controller"
	"github.com/eatwell/eatwell-backend/internal/app/repository"
	"github.com/eatwell/eatwell-backend/internal/app/service"
	"github.com/eatwell/eatwell-backend/internal/router"
	"github.com/eatwell/eatwell-backend/internal/server"
	"github.com/eatwell/eatwell-backend/pkg/logger"
)

func main() {
	err := server.Run("catalog", func(deps *server.Deps) router.Controllers {
		productService := service.NewProductService(repository.NewProductRepository(deps.DB))
		return router.Controllers{
			Products: controller.NewProductController(productService),
		}
	})
	if err != nil {
		logger.Fatal("Catalog backend stopped", err)
	}
}
