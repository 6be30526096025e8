package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/mifotohu/katyufigyelo/internal/config"
	"github.com/mifotohu/katyufigyelo/internal/db"
	"github.com/mifotohu/katyufigyelo/internal/geocoding"
	"github.com/mifotohu/katyufigyelo/internal/middleware"
	"github.com/mifotohu/katyufigyelo/internal/potholes"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	var handler *potholes.Handler
	if err := db.Connect(); err != nil {
		if !errors.Is(err, db.ErrMissingDatabaseURL) {
			log.Fatal("Failed to connect to database: ", err)
		}
		// Start anyway: the ingestion surface answers 503 until configured.
		log.Println("WARNING: DATABASE_URL not set, ingestion endpoints disabled")
		handler = potholes.NewUnconfiguredHandler(potholes.ErrConfigurationMissing)
	} else {
		if err := potholes.Init(); err != nil {
			log.Fatal("Failed to auto-migrate tables: ", err)
		}
		store := potholes.NewStore(db.DB)
		norm := potholes.NewNormalizer(cfg.Matching.CaseSensitive)
		flow := potholes.NewWorkflow(store, geocoding.NewClient(), norm)
		handler = potholes.NewHandler(flow, store, cfg.Severity)
	}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/potholes", potholes.SetupRoutes(handler))

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
