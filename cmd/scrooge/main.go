package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/scrooge/cmd/scrooge/internal/commands"
)

func main() {
	_ = godotenv.Load()

	backend := commands.NewPostgresBackend()

	err := commands.NewRootCommand(backend).Execute()
	_ = backend.Close()

	if err != nil {
		os.Exit(1)
	}
}
