// main.go
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A .env file may override the database file or config path; its absence
	// is not an error.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment overrides from .env")
	}

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
