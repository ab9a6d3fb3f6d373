package router

import (
	"net/http"
	"path"

	"ecommerce-api/internal/config"
	"ecommerce-api/internal/handlers"
	"ecommerce-api/internal/middleware"
	"ecommerce-api/internal/services"
	"ecommerce-api/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// SetupRouter wires services, handlers and middleware over st. CORS wraps the
// router so preflight requests are answered before route matching.
func SetupRouter(cfg config.Config, st store.Store, logger zerolog.Logger) http.Handler {
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpire, logger)
	userService := services.NewUserService(st, logger)
	categoryService := services.NewCategoryService(st, st, logger)
	productService := services.NewProductService(st, st, logger)

	opts := handlers.Options{
		Production:       cfg.IsProduction(),
		CookieExpireDays: cfg.CookieExpireDays,
	}
	authHandler := handlers.NewAuthHandler(userService, tokenService, opts, logger)
	categoryHandler := handlers.NewCategoryHandler(categoryService, opts, logger)
	productHandler := handlers.NewProductHandler(productService, opts, logger)

	authenticate := middleware.Authentication(tokenService, userService, logger)
	requireAdmin := middleware.RequireAdmin()
	jsonOnly := middleware.RequestValidation()

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.NotFound)

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(rateLimiter.Middleware())

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)

	public := auth.NewRoute().Subrouter()
	public.Use(jsonOnly)
	public.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	self := auth.NewRoute().Subrouter()
	self.Use(authenticate, jsonOnly)
	self.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)
	self.HandleFunc("/update", authHandler.UpdateProfile).Methods(http.MethodPut)

	admins := auth.NewRoute().Subrouter()
	admins.Use(authenticate, requireAdmin, jsonOnly)
	admins.HandleFunc("/all", authHandler.ListUsers).Methods(http.MethodGet)
	admins.HandleFunc("/update/{id}", authHandler.AdminUpdateUser).Methods(http.MethodPut)

	category := api.PathPrefix("/category").Subrouter()
	category.HandleFunc("", categoryHandler.List).Methods(http.MethodGet)
	category.HandleFunc("/", categoryHandler.List).Methods(http.MethodGet)
	category.HandleFunc("/{id}", categoryHandler.Get).Methods(http.MethodGet)

	categoryAdmin := category.NewRoute().Subrouter()
	categoryAdmin.Use(authenticate, requireAdmin, jsonOnly)
	categoryAdmin.HandleFunc("/create", categoryHandler.Create).Methods(http.MethodPost)
	categoryAdmin.HandleFunc("/{id}", categoryHandler.Update).Methods(http.MethodPut)
	categoryAdmin.HandleFunc("/{id}", categoryHandler.Delete).Methods(http.MethodDelete)

	product := api.PathPrefix("/product").Subrouter()
	product.HandleFunc("", productHandler.List).Methods(http.MethodGet)
	product.HandleFunc("/", productHandler.List).Methods(http.MethodGet)
	product.HandleFunc("/categories", productHandler.Categories).Methods(http.MethodGet)
	product.HandleFunc("/search", productHandler.Search).Methods(http.MethodGet)
	product.HandleFunc("/related/{id}", productHandler.Related).Methods(http.MethodGet)
	product.HandleFunc("/photo/{id}", productHandler.Photo).Methods(http.MethodGet)
	product.Handle("/by/search", jsonOnly(http.HandlerFunc(productHandler.ListBySearch))).Methods(http.MethodPost)
	product.HandleFunc("/{id}", productHandler.Get).Methods(http.MethodGet)

	productAdmin := product.NewRoute().Subrouter()
	productAdmin.Use(authenticate, requireAdmin)
	productAdmin.HandleFunc("", productHandler.Create).Methods(http.MethodPost)
	productAdmin.HandleFunc("/", productHandler.Create).Methods(http.MethodPost)
	productAdmin.HandleFunc("/{id}", productHandler.Update).Methods(http.MethodPut)
	productAdmin.HandleFunc("/{id}", productHandler.Delete).Methods(http.MethodDelete)

	api.PathPrefix("/").HandlerFunc(handlers.NotFound)

	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(staticFiles(cfg.StaticDir))
	}

	return middleware.CORS(cfg.TrustedOrigins)(r)
}

// staticFiles serves files from dir and falls back to the JSON not-found
// response for anything that does not exist there.
func staticFiles(dir string) http.Handler {
	root := http.Dir(dir)
	files := http.FileServer(root)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, err := root.Open(path.Clean("/" + r.URL.Path))
		if err != nil {
			handlers.NotFound(w, r)
			return
		}
		f.Close()
		files.ServeHTTP(w, r)
	})
}
