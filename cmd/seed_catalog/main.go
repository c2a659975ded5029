package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"catalog-cart/catalog"
	"catalog-cart/config"
	"catalog-cart/logger"
	"catalog-cart/store"
)

func main() {
	configPath := flag.String("config", "", "config file")
	keepCart := flag.Bool("keep-cart", false, "leave the persisted cart untouched")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Component: "seed_catalog",
		Level:     logger.ParseLevel(cfg.Log.Level),
		Format:    cfg.Log.Format,
	})

	kv, err := store.Open(ctx, *cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	// Clean up any existing catalog records
	fmt.Println("Cleaning up existing records...")
	keys := []string{store.KeyUsers, store.KeyBooks, store.KeyLoans}
	if !*keepCart {
		keys = append(keys, store.KeyCart)
	}
	for _, key := range keys {
		if err := store.Clear(ctx, kv, key); err != nil {
			fmt.Printf("Warning: Could not clear %s: %v\n", key, err)
		}
	}
	fmt.Println("Cleanup complete.")

	repo, err := catalog.Open(ctx, kv, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening catalog: %v\n", err)
		os.Exit(1)
	}

	users := []catalog.UserInput{
		{Name: "Ana Souza", Email: "ana@gmail.com"},
		{Name: "Francisco Lima", Email: "francisco@gmail.com"},
		{Name: "Murilo Costa", Email: "murilo@gmail.com"},
	}
	books := []catalog.BookInput{
		{Title: "Dom Casmurro", Author: "Machado de Assis", Year: 1899, Genre: "Romance"},
		{Title: "Memórias Póstumas de Brás Cubas", Author: "Machado de Assis", Year: 1881, Genre: "Romance"},
		{Title: "O Cortiço", Author: "Aluísio Azevedo", Year: 1890, Genre: "Naturalismo"},
		{Title: "Grande Sertão: Veredas", Author: "João Guimarães Rosa", Year: 1956, Genre: "Romance"},
		{Title: "A Hora da Estrela", Author: "Clarice Lispector", Year: 1977, Genre: "Romance"},
		{Title: "Vidas Secas", Author: "Graciliano Ramos", Year: 1938, Genre: "Romance"},
		{Title: "1984", Author: "George Orwell", Year: 1949, Genre: "Distopia"},
		{Title: "The Art of War", Author: "Sun Tzu", Year: -500, Genre: "Estratégia"},
	}

	successCount := 0
	errorCount := 0

	for _, in := range users {
		fmt.Printf("Adding user: %s... ", in.Name)
		u, err := repo.AddUser(ctx, in)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (ID: %s)\n", u.ID)
		successCount++
	}
	for _, in := range books {
		fmt.Printf("Adding book: %s by %s... ", in.Title, in.Author)
		b, err := repo.AddBook(ctx, in)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (ID: %s)\n", b.ID)
		successCount++
	}

	fmt.Printf("\nSeed complete!\n")
	fmt.Printf("Successfully added: %d records\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if len(repo.Books()) > 0 {
		fmt.Println("\nSeeded books:")
		fmt.Printf("%-36s %-40s %-25s %6s\n", "ID", "Title", "Author", "Year")
		fmt.Println(strings.Repeat("-", 110))
		for _, book := range repo.Books() {
			fmt.Printf("%-36s %-40s %-25s %6d\n", book.ID, truncateString(book.Title, 40), truncateString(book.Author, 25), book.Year)
		}
	}
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
