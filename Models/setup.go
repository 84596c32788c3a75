package Models

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDataBase() {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	DbHost := os.Getenv("DB_HOST")
	DbUser := os.Getenv("DB_USER")
	DbPassword := os.Getenv("DB_PASSWORD")
	DbName := os.Getenv("DB_NAME")
	DbPort := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", DbHost, DbUser, DbPassword, DbName, DbPort)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("connection error:", err)
	}

	Migrate(DB)
}

// Migrate runs AutoMigrate in dependency order: users first, then the
// profiles that reference them, then the scheduling records.
func Migrate(db *gorm.DB) {
	db.AutoMigrate(&User{})

	db.AutoMigrate(&Doctor{})
	db.AutoMigrate(&Patient{})

	db.AutoMigrate(&Availability{})
	db.AutoMigrate(&Appointment{})
	db.AutoMigrate(&Treatment{})
}
