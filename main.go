package main

import (
	"context"
	"log"
	"os"

	"skequip/blob"
	"skequip/catalog"
	"skequip/db"
	"skequip/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Fatal("MONGODB_URI is not set")
	}
	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "productDb"
	}

	client, database, err := db.Connect(uri, dbName)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	log.Println("Database connected successfully:", dbName)

	images, err := blob.NewStore(database)
	if err != nil {
		log.Fatal("Failed to open image store: ", err)
	}
	repo := catalog.NewRepository(database, images)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app, routes.Deps{
		Catalog: repo,
		Query:   catalog.NewQuery(repo),
		Blobs:   images,
		Events:  routes.NewEventHub(),
		Health: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// Start server
	if err := app.Listen(":" + port); err != nil {
		log.Println("Server stopped:", err)
	}
	if err := db.Disconnect(client); err != nil {
		log.Println("Error disconnecting from database:", err)
	}
}
