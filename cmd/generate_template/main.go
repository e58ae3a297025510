package main

import (
	"flag"
	"os"
	"path/filepath"

	"contacts-admin/internal/service"
	"contacts-admin/internal/utils"
)

func main() {
	output := flag.String("o", service.TemplateFileName, "output path of the template workbook")
	flag.Parse()

	log := utils.GetLogger()

	data, err := service.NewExcelService("").GenerateContactTemplate()
	if err != nil {
		log.Fatalf("Error generating template: %v", err)
	}

	if dir := filepath.Dir(*output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Error creating directory: %v", err)
		}
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Fatalf("Error saving file: %v", err)
	}

	log.WithField("path", *output).Info("Template workbook created")
}
