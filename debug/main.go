package main

import (
	"os"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/server"
)

func main() {
	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "4001"
	}

	err := server.Start(httpPort)
	if err != nil {
		return
	}
}
