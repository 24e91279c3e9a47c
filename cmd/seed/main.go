package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"libraryapi/internal/app"
	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/member"
	"libraryapi/internal/platform/logging"

	"go.uber.org/zap"
)

var catalog = []book.Input{
	{ISBN: "9780547928227", Title: "The Hobbit", Author: "J.R.R. Tolkien", Category: "Fantasy", PublicationYear: intPtr(1937)},
	{ISBN: "9780441013593", Title: "Dune", Author: "Frank Herbert", Category: "Science Fiction", PublicationYear: intPtr(1965)},
	{ISBN: "9780451524935", Title: "1984", Author: "George Orwell", Category: "Fiction", PublicationYear: intPtr(1949)},
	{ISBN: "9780061120084", Title: "To Kill a Mockingbird", Author: "Harper Lee", Category: "Fiction", PublicationYear: intPtr(1960)},
	{ISBN: "9780132350884", Title: "Clean Code", Author: "Robert C. Martin", Category: "Technology", PublicationYear: intPtr(2008)},
	{ISBN: "9780134190440", Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Category: "Technology", PublicationYear: intPtr(2015)},
	{ISBN: "9780553380163", Title: "A Brief History of Time", Author: "Stephen Hawking", Category: "Science", PublicationYear: intPtr(1988)},
	{ISBN: "9780141439518", Title: "Pride and Prejudice", Author: "Jane Austen", Category: "Romance", PublicationYear: intPtr(1813)},
}

var firstNames = []string{"Ada", "Grace", "Alan", "Katherine", "Linus", "Barbara", "Dennis", "Margaret"}
var lastNames = []string{"Lovelace", "Hopper", "Turing", "Johnson", "Torvalds", "Liskov", "Ritchie", "Hamilton"}

func main() {
	members := flag.Int("members", 20, "number of members to create")
	maxCopies := flag.Int("max-copies", 5, "upper bound of copies per book")
	flag.Parse()

	if err := run(*members, *maxCopies); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(memberCount, maxCopies int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if maxCopies < 1 {
		maxCopies = 1
	}

	books := 0
	for _, in := range catalog {
		in.TotalCopies = intPtr(1 + rand.Intn(maxCopies))
		if _, err := a.Books.Create(ctx, in); err != nil {
			if errors.Is(err, book.ErrDuplicateISBN) {
				continue
			}
			return fmt.Errorf("create book %s: %w", in.ISBN, err)
		}
		books++
	}
	logger.Info("books seeded", zap.Int("created", books), zap.Int("catalog", len(catalog)))

	created := 0
	for i := 0; i < memberCount; i++ {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames)+i)%len(lastNames)]
		in := member.Input{
			MemberID:  fmt.Sprintf("M-%05d", i+1),
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("%s.%s.%d@example.com", first, last, i+1),
		}
		if _, err := a.Members.Create(ctx, in); err != nil {
			if errors.Is(err, member.ErrDuplicateMemberID) || errors.Is(err, member.ErrDuplicateEmail) {
				continue
			}
			return fmt.Errorf("create member %s: %w", in.MemberID, err)
		}
		created++
	}
	logger.Info("members seeded", zap.Int("created", created))
	return nil
}

func intPtr(v int) *int {
	return &v
}
