package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nickyhof/DuckCLI/db"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	_ = godotenv.Load()

	port := flag.Int("port", 8465, "TCP port to listen on")
	dbPath := flag.String("db", os.Getenv("DUCKCLI_DB"), "Database file path (in-memory if empty)")
	jwtSecret := flag.String("jwtSecret", os.Getenv("DUCKCLI_JWT_SECRET"), "Shared secret for JWT auth (auth disabled if empty)")
	jwtIssuer := flag.String("jwtIssuer", os.Getenv("DUCKCLI_JWT_ISSUER"), "Expected JWT issuer")
	jwtAudience := flag.String("jwtAudience", os.Getenv("DUCKCLI_JWT_AUDIENCE"), "Expected JWT audience")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("duckcli SQL Server v%s\n", Version)
		return
	}

	client, err := db.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer client.Close()

	if *dbPath == "" || *dbPath == db.MemoryPath {
		log.Println("Using in-memory database")
	} else {
		log.Printf("Using database: %s", *dbPath)
	}

	var authConfig *AuthConfig
	if *jwtSecret != "" {
		authConfig = &AuthConfig{
			Enabled:   true,
			JWTSecret: *jwtSecret,
			Issuer:    *jwtIssuer,
			Audience:  *jwtAudience,
		}
		log.Println("JWT authentication enabled")
	}

	server := NewServer(client, authConfig)
	addr := fmt.Sprintf(":%d", *port)

	if err := server.Start(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Print banner
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   duckcli SQL Server v%-15s ║\n", Version)
	fmt.Println("║   DuckDB over a TCP line protocol     ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on port %d\n", *port)
	fmt.Println("Send SQL queries (one per line), 'quit' to disconnect")
	fmt.Println()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	server.Stop()
	log.Println("Server stopped")
}
