package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mmdatafocus/ffbaudit_backend/utils"
)

// Generates the bcrypt hash for API_ADMIN_PASSWORD_HASH.
func main() {
	password := flag.String("password", "", "Password to hash")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "usage: hash-password -password <secret>")
		os.Exit(2)
	}
	hash, err := utils.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(hash))
}
