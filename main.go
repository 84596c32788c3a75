package main

import (
	"log"
	"os"

	"github.com/Aryan1411/hms/Controllers"
	"github.com/Aryan1411/hms/CronJobs"
	"github.com/Aryan1411/hms/Mail"
	"github.com/Aryan1411/hms/Models"
	"github.com/Aryan1411/hms/Routes"
	"github.com/Aryan1411/hms/Tasks"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	Models.ConnectDataBase()

	mailer := Mail.NewGomailSenderFromEnv()

	var store Tasks.Store
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisStore, err := Tasks.NewRedisStore(addr, os.Getenv("REDIS_PASSWORD"))
		if err != nil {
			log.Fatal(err)
		}
		store = redisStore
	} else {
		store = Tasks.NewMemoryStore()
	}

	manager := Tasks.NewManager(store)
	runner := Tasks.NewRunner(Models.DB, mailer, manager, os.Getenv("EXPORT_FOLDER"))

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	Routes.ConfigRoutes(router, Controllers.NewDoctorController(runner), Controllers.NewPatientController(runner))

	CronJobs.NewReportScheduler(runner).Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	router.Run(":" + port)
}
