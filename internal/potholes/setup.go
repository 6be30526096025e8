package potholes

import (
	"github.com/mifotohu/katyufigyelo/internal/db"
)

func Init() error {
	return db.DB.AutoMigrate(&Pothole{})
}
