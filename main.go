package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/config"
	"github.com/habbit-app/api-go/rabbitmq"
	"github.com/habbit-app/api-go/routes"
	"github.com/joho/godotenv"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Initialize database; InitDB runs the migrations.
	db := config.InitDB(cfg)

	// Mail publisher is optional; password reset still works without it,
	// the OTP just won't be mailed out.
	var mq rabbitmq.Publisher
	if cfg.AMQPURL != "" {
		conn, err := rabbitmq.Dial(cfg.AMQPURL)
		if err != nil {
			log.Printf("Could not connect to RabbitMQ: %v", err)
		} else {
			defer conn.Close()
			mq = conn
		}
	}

	// Create a new Gin router
	r := gin.Default()

	// Add logging middleware
	r.Use(gin.LoggerWithWriter(os.Stdout))

	// Initialize routes
	routes.SetupRoutes(r, db, cfg, mq)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	r.Run(":" + port)
}
