package main

import (
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	if err := Execute(); err != nil {
		log.Fatal(err)
	}
}
