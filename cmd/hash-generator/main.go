// Command hash-generator prints bcrypt hashes for seeding users directly into
// the database. Passwords are checked against the same rules signup applies.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", config.DefaultBCryptCost, "bcrypt cost")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator [-cost n] password...")
		os.Exit(2)
	}
	if failed := generate(os.Stdout, auth.NewBcryptHasher(*cost), flag.Args()); failed > 0 {
		os.Exit(1)
	}
}

// generate writes one hash per valid password and returns how many were rejected.
func generate(out io.Writer, hasher auth.PasswordHasher, passwords []string) int {
	failed := 0
	for _, password := range passwords {
		if err := domain.ValidatePassword(password); err != nil {
			fmt.Fprintf(out, "Rejected %q: %v\n\n", password, err)
			failed++
			continue
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			fmt.Fprintf(out, "Error generating hash for %q: %v\n\n", password, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "Password: %s\nHash: %s\n\n", password, hash)
	}
	return failed
}
