package main

import (
	"github.com/davwin/foodgram-project-react/cmd/config"
	migration "github.com/davwin/foodgram-project-react/cmd/database/migrate"
	"github.com/davwin/foodgram-project-react/internal/utils"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up application: %v", err)
	}

	log.Fatal(app.Listen(":" + utils.GetConfig("APP_PORT")))
}
