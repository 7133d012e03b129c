package router

import (
	"time"

	"brigade/internal/config"
	"brigade/internal/handler"
	"brigade/internal/infra"
	"brigade/internal/middleware"
	"brigade/internal/model"
	"brigade/internal/repository"
	"brigade/internal/service"
	"brigade/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, llm *infra.RecipeModel, llmCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	dishRepo := repository.NewDishRepository(db)
	preparationRepo := repository.NewPreparationRepository(db)
	graphRepo := repository.NewGraphRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	tableRepo := repository.NewTableRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	catalogSvc := service.NewCatalogService(ingredientRepo, movementRepo, rdb)
	recipeSvc := service.NewRecipeService(dishRepo, preparationRepo, graphRepo, rdb, cfg.PDFStoragePath, cfg.DefaultTVARate)
	analysisSvc := service.NewAnalysisService(dishRepo, graphRepo, rdb)
	planSvc := service.NewPlanService(graphRepo)
	tableSvc := service.NewTableService(tableRepo)
	orderSvc := service.NewOrderService(saleRepo, dishRepo, ingredientRepo, movementRepo, tableRepo, graphRepo, dispatcher)
	workshopSvc := service.NewWorkshopService(llm, llmCB, ingredientRepo, dishRepo, graphRepo, rdb, cfg.DefaultTVARate)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	ingredientsH := handler.NewIngredientsHandler(catalogSvc)
	recipesH := handler.NewRecipesHandler(recipeSvc)
	analysisH := handler.NewAnalysisHandler(analysisSvc, planSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	tablesH := handler.NewTablesHandler(tableSvc)
	workshopH := handler.NewWorkshopHandler(workshopSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyStaff := middleware.RequireRole("serveur", "chef", "gérant")
	kitchen := middleware.RequireRole("chef", "gérant")
	manager := middleware.RequireRole("gérant")

	v1 := r.Group("/v1", jwtMW)
	{
		// Ingredients — kitchen writes, all staff read
		v1.GET("/ingredients", anyStaff, ingredientsH.List)
		v1.GET("/ingredients/:id", anyStaff, ingredientsH.GetByID)
		v1.GET("/ingredients/alerts", anyStaff, ingredientsH.StockAlerts)
		ing := v1.Group("/ingredients", kitchen)
		{
			ing.POST("", ingredientsH.Create)
			ing.PUT("/:id", ingredientsH.Update)
			ing.DELETE("/:id", ingredientsH.Delete)
			ing.POST("/:id/stock", ingredientsH.AdjustStock)
		}
		v1.GET("/stock/movements", kitchen, ingredientsH.ListMovements)

		// Dishes
		v1.GET("/dishes", anyStaff, recipesH.ListDishes)
		v1.GET("/dishes/:id", anyStaff, recipesH.GetDish)
		v1.GET("/dishes/:id/cost", kitchen, recipesH.Cost(model.KindDish))
		v1.GET("/dishes/:id/sheet.pdf", kitchen, recipesH.SheetPDF)
		dishes := v1.Group("/dishes", kitchen)
		{
			dishes.POST("", recipesH.CreateDish)
			dishes.PUT("/:id", recipesH.UpdateDish)
			dishes.DELETE("/:id", recipesH.DeleteDish)
			dishes.PUT("/:id/composition", recipesH.SetComposition(model.KindDish))
		}

		// Preparations
		v1.GET("/preparations", anyStaff, recipesH.ListPreparations)
		v1.GET("/preparations/:id", anyStaff, recipesH.GetPreparation)
		v1.GET("/preparations/:id/cost", kitchen, recipesH.Cost(model.KindPreparation))
		preps := v1.Group("/preparations", kitchen)
		{
			preps.POST("", recipesH.CreatePreparation)
			preps.PUT("/:id", recipesH.UpdatePreparation)
			preps.DELETE("/:id", recipesH.DeletePreparation)
			preps.PUT("/:id/composition", recipesH.SetComposition(model.KindPreparation))
		}

		// Menu analysis & production planning
		analysis := v1.Group("/analysis", kitchen)
		{
			analysis.GET("/menu", analysisH.AnalyzeMenu)
			analysis.POST("/plan", analysisH.BuildPlan)
		}

		// Register — every role can take orders
		v1.POST("/orders", anyStaff, ordersH.ProcessOrder)
		v1.GET("/sales", anyStaff, ordersH.ListSales)
		v1.GET("/sales/:id", anyStaff, ordersH.GetSale)
		v1.DELETE("/sales/:id", manager, ordersH.VoidSale)

		// Tables
		v1.GET("/tables", anyStaff, tablesH.List)
		v1.POST("/tables", manager, tablesH.Create)
		v1.POST("/tables/:id/open", anyStaff, tablesH.Open)
		v1.POST("/tables/:id/free", anyStaff, tablesH.Free)

		// AI recipe workshop
		workshop := v1.Group("/workshop", kitchen)
		{
			workshop.POST("/concepts", workshopH.GenerateConcept)
			workshop.POST("/concepts/import", workshopH.ImportConcept)
		}

		// Users — manager only
		users := v1.Group("/users", manager)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
