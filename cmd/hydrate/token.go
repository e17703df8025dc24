package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/grimoire-backend/internal/auth"
	"github.com/heartmarshall/grimoire-backend/pkg/ctxutil"
)

var (
	tokenSubject string
	tokenRole    string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the hydration endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !cfg.Auth.HasJWT() {
			return errors.New("auth: jwt_secret is not configured")
		}
		m := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
		token, err := m.GenerateAccessToken(tokenSubject, tokenRole)
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"token": token, "expiresIn": cfg.Auth.TokenTTL.String()})
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Read a password from stdin and print its bcrypt hash",
	RunE: func(cmd *cobra.Command, _ []string) error {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		hash, err := auth.HashPassword(strings.TrimRight(line, "\r\n"))
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"hash": hash})
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", ctxutil.RoleAdmin, "role claim")
}
