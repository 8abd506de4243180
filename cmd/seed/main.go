package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/tiffin-backend/config"
	"github.com/ikkim/tiffin-backend/internal/app/repository"
	"github.com/ikkim/tiffin-backend/internal/db"
)

const batchSize = 500

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [--yes]")
	}
	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "--yes"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	workbook, err := readWorkbook(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Menu items to import: %d (skipped %d rows)\n", len(workbook.Items), workbook.Skipped)
	fmt.Printf("Price thresholds to import: %d\n", len(workbook.Thresholds))

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	menuRepo := repository.NewMenuRepository(db.GetDB())
	if err := menuRepo.Upsert(workbook.Items, batchSize); err != nil {
		log.Fatal("Failed to import menu items:", err)
	}

	thresholdRepo := repository.NewThresholdRepository(db.GetDB())
	if err := thresholdRepo.Upsert(workbook.Thresholds); err != nil {
		log.Fatal("Failed to import price thresholds:", err)
	}

	fmt.Println("Import completed successfully!")
}
