package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/security"
)

// hashpassword prints an argon2id hash suitable for HAVEN_ADMIN_PASSWORD_HASH.
// The password is read from -password or, when omitted, the first line of stdin.
func main() {
	password := flag.String("password", "", "plain-text admin password")
	flag.Parse()

	_ = godotenv.Load()

	var params config.PasswordConfig
	if err := envconfig.Process(config.EnvPrefix, &params); err != nil {
		fmt.Fprintf(os.Stderr, "reading argon settings: %v\n", err)
		os.Exit(1)
	}

	plain := *password
	if plain == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "no password provided")
			os.Exit(1)
		}
		plain = strings.TrimRight(line, "\r\n")
	}

	hash, err := security.HashPassword(plain, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashing password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
