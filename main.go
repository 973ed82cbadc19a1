package main

import (
	"embed"
	"os"

	"justdoit/internal/cli"
)

//go:embed templates/* templates/partials/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

func main() {
	if err := cli.Execute(cli.Assets{Templates: templatesFS, Static: staticFS}); err != nil {
		os.Exit(1)
	}
}
